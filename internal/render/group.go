package render

import (
	"sort"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// ConversationGroup is one calendar bucket of conversations. Key is the
// period in "2006-01" or "2006" form.
type ConversationGroup struct {
	Key           string
	Conversations []model.Conversation
}

// GroupByPeriod partitions conversations by calendar month or year. Each
// conversation buckets by its creation time, falling back to its update
// time, falling back to now. Groups come back in ascending key order;
// within a group the input order is preserved.
func GroupByPeriod(convs []model.Conversation, mode model.ExportMode) []ConversationGroup {
	return groupByPeriod(convs, mode, time.Now().UTC())
}

func groupByPeriod(convs []model.Conversation, mode model.ExportMode, now time.Time) []ConversationGroup {
	layout := "2006-01"
	if mode == model.ModePerYear {
		layout = "2006"
	}

	buckets := make(map[string][]model.Conversation)
	for _, conv := range convs {
		ts := conv.CreatedAt
		if ts.IsZero() {
			ts = conv.UpdatedAt
		}
		if ts.IsZero() {
			ts = now
		}
		key := ts.UTC().Format(layout)
		buckets[key] = append(buckets[key], conv)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	groups := make([]ConversationGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, ConversationGroup{Key: k, Conversations: buckets[k]})
	}
	return groups
}
