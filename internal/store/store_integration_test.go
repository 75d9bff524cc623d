//go:build integration

package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_SaveRunAndConversation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	runID, err := s.SaveRun(ctx, RunRecord{
		InputFile:     "integration-test-" + uuid.New().String()[:8] + ".json",
		Source:        "chatgpt",
		Conversations: 1,
		Messages:      2,
		OutputFiles:   1,
	})
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID == uuid.Nil {
		t.Fatal("expected non-nil run ID")
	}

	conv := model.Conversation{
		ID:        "conv-" + uuid.New().String()[:8],
		Title:     "Integration test conversation",
		CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 15, 10, 35, 0, 0, time.UTC),
		Messages: []model.Message{
			{Role: model.RoleUser, Text: "Hello", Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
			// Zero timestamp must land as NULL.
			{Role: model.RoleAssistant, Text: "Hi there"},
		},
	}

	convID, err := s.SaveConversation(ctx, runID, "chatgpt", conv)
	if err != nil {
		t.Fatalf("SaveConversation failed: %v", err)
	}
	if convID == uuid.Nil {
		t.Fatal("expected non-nil conversation ID")
	}

	// Verify the message rows landed
	var count int
	err = s.pool.QueryRow(ctx, "SELECT count(*) FROM messages WHERE conversation_id = $1", convID).Scan(&count)
	if err != nil {
		t.Fatalf("count messages failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 messages, got %d", count)
	}

	// Cleanup
	t.Cleanup(func() {
		s.pool.Exec(ctx, "DELETE FROM messages WHERE conversation_id = $1", convID)
		s.pool.Exec(ctx, "DELETE FROM conversations WHERE id = $1", convID)
		s.pool.Exec(ctx, "DELETE FROM runs WHERE id = $1", runID)
	})
}
