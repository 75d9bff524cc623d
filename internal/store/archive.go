package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// RunRecord summarizes one completed conversion run.
type RunRecord struct {
	InputFile     string
	Source        string
	Conversations int
	Messages      int
	OutputFiles   int
}

// SaveRun records a conversion run and returns its id.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (uuid.UUID, error) {
	runID := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO runs (id, input_file, source, conversations, messages, output_files, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		runID, rec.InputFile, rec.Source, rec.Conversations, rec.Messages, rec.OutputFiles,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}
	return runID, nil
}

// SaveConversation writes a conversation and its messages under a run.
// Tables: conversations, messages.
func (s *Store) SaveConversation(ctx context.Context, runID uuid.UUID, source string, conv model.Conversation) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// 1. Insert conversation
	convID := uuid.New()
	_, err = tx.Exec(ctx, `
		INSERT INTO conversations (id, run_id, source, source_id, title, created_at, updated_at, message_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		convID, runID, source, conv.ID, conv.Title, nullableTime(conv.CreatedAt), nullableTime(conv.UpdatedAt), len(conv.Messages),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert conversation: %w", err)
	}

	// 2. Insert messages
	for i, msg := range conv.Messages {
		_, err = tx.Exec(ctx, `
			INSERT INTO messages (id, conversation_id, idx, role, content, sent_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), convID, i, string(msg.Role), msg.Text, nullableTime(msg.Timestamp),
		)
		if err != nil {
			return uuid.Nil, fmt.Errorf("insert message: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}

	return convID, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
