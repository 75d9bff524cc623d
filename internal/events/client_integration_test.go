//go:build integration

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"
)

func skipWithoutNATS(t *testing.T) string {
	t.Helper()
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set, skipping integration test")
	}
	return url
}

func TestIntegration_PublishRunCompleted(t *testing.T) {
	natsURL := skipWithoutNATS(t)
	ctx := context.Background()
	logger := slog.Default()

	client, err := NewClient(ctx, natsURL, os.Getenv("NATS_TOKEN"), logger)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer client.Close()

	received := make(chan RunCompleted, 1)

	err = client.Subscribe(SubjectRunCompleted, func(subject string, data []byte) {
		var evt RunCompleted
		json.Unmarshal(data, &evt)
		received <- evt
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	// Give subscription time to propagate
	time.Sleep(100 * time.Millisecond)

	err = client.Publish(SubjectRunCompleted, RunCompleted{
		InputFile:     "conversations.json",
		Source:        "chatgpt",
		Conversations: 3,
		Messages:      12,
		OutputFiles:   3,
		CompletedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case evt := <-received:
		if evt.InputFile != "conversations.json" {
			t.Errorf("expected input_file conversations.json, got %q", evt.InputFile)
		}
		if evt.Conversations != 3 {
			t.Errorf("expected 3 conversations, got %d", evt.Conversations)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
