package render

import (
	"testing"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

func datedConv(title string, created time.Time) model.Conversation {
	return model.Conversation{
		Title:     title,
		CreatedAt: created,
		Messages:  []model.Message{{Role: model.RoleUser, Text: "x"}},
	}
}

func TestGroupByPeriod_Month(t *testing.T) {
	convs := []model.Conversation{
		datedConv("a", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
		datedConv("b", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		datedConv("c", time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
	}

	groups := GroupByPeriod(convs, model.ModePerMonth)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "2024-01" || groups[1].Key != "2024-02" {
		t.Errorf("keys = %q, %q; want ascending 2024-01, 2024-02", groups[0].Key, groups[1].Key)
	}
	if len(groups[0].Conversations) != 2 {
		t.Errorf("2024-01 has %d conversations, want 2", len(groups[0].Conversations))
	}
	// Input order survives within a bucket.
	if groups[0].Conversations[0].Title != "a" || groups[0].Conversations[1].Title != "c" {
		t.Errorf("bucket order = %q, %q", groups[0].Conversations[0].Title, groups[0].Conversations[1].Title)
	}
}

func TestGroupByPeriod_Year(t *testing.T) {
	convs := []model.Conversation{
		datedConv("a", time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)),
		datedConv("b", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	groups := GroupByPeriod(convs, model.ModePerYear)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "2023" || groups[1].Key != "2024" {
		t.Errorf("keys = %q, %q", groups[0].Key, groups[1].Key)
	}
}

func TestGroupByPeriod_FallsBackToUpdateTime(t *testing.T) {
	conv := model.Conversation{
		Title:     "updated only",
		UpdatedAt: time.Date(2022, 7, 3, 0, 0, 0, 0, time.UTC),
	}

	groups := GroupByPeriod([]model.Conversation{conv}, model.ModePerMonth)
	if len(groups) != 1 || groups[0].Key != "2022-07" {
		t.Fatalf("groups = %+v, want one 2022-07 bucket", groups)
	}
}

func TestGroupByPeriod_UnknownTimesUseNow(t *testing.T) {
	now := time.Date(2031, 5, 9, 12, 0, 0, 0, time.UTC)

	groups := groupByPeriod([]model.Conversation{{Title: "undated"}}, model.ModePerMonth, now)
	if len(groups) != 1 || groups[0].Key != "2031-05" {
		t.Fatalf("groups = %+v, want one 2031-05 bucket", groups)
	}

	groups = groupByPeriod([]model.Conversation{{Title: "undated"}}, model.ModePerYear, now)
	if len(groups) != 1 || groups[0].Key != "2031" {
		t.Fatalf("groups = %+v, want one 2031 bucket", groups)
	}
}

func TestGroupByPeriod_Empty(t *testing.T) {
	if groups := GroupByPeriod(nil, model.ModePerMonth); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}
