package parse

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// mustDecode turns a JSON literal into the map shape normalizeMessage sees.
func mustDecode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test literal: %v", err)
	}
	return m
}

func TestNormalizeMessage_RoleSynonyms(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.Role
	}{
		{"explicit user", `{"role":"user","content":"x"}`, model.RoleUser},
		{"explicit assistant", `{"role":"assistant","content":"x"}`, model.RoleAssistant},
		{"model", `{"role":"model","content":"x"}`, model.RoleAssistant},
		{"gemini", `{"role":"gemini","content":"x"}`, model.RoleAssistant},
		{"ai", `{"role":"AI","content":"x"}`, model.RoleAssistant},
		{"bot", `{"role":"bot","content":"x"}`, model.RoleAssistant},
		{"human", `{"role":"human","content":"x"}`, model.RoleUser},
		{"unknown value", `{"role":"system-ish","content":"x"}`, model.RoleUser},
		{"author string", `{"author":"model","content":"x"}`, model.RoleAssistant},
		{"author object", `{"author":{"role":"assistant"},"content":"x"}`, model.RoleAssistant},
		{"sender", `{"sender":"bot","content":"x"}`, model.RoleAssistant},
		{"from", `{"from":"human","content":"x"}`, model.RoleUser},
		{"no role at all", `{"content":"x"}`, model.RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := normalizeMessage(mustDecode(t, tt.raw))
			if msg == nil {
				t.Fatal("expected a message, got nil")
			}
			if msg.Role != tt.want {
				t.Errorf("role = %q, want %q", msg.Role, tt.want)
			}
		})
	}
}

func TestNormalizeMessage_ContentPrecedence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string content", `{"content":"plain"}`, "plain"},
		{"content parts", `{"content":{"parts":["a","b"]}}`, "a\nb"},
		{"content parts with text objects", `{"content":{"parts":[{"text":"a"},{"kind":"image"},"b"]}}`, "a\nb"},
		{"content text", `{"content":{"text":"inner"}}`, "inner"},
		{"top-level parts", `{"parts":["p1","p2"]}`, "p1\np2"},
		{"top-level text", `{"text":"bare"}`, "bare"},
		{"message string", `{"message":"fallback"}`, "fallback"},
		{"message object stringified", `{"message":{"k":1}}`, `{"k":1}`},
		{"trims whitespace", `{"content":"  padded \n"}`, "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := normalizeMessage(mustDecode(t, tt.raw))
			if msg == nil {
				t.Fatal("expected a message, got nil")
			}
			if msg.Text != tt.want {
				t.Errorf("text = %q, want %q", msg.Text, tt.want)
			}
		})
	}
}

func TestNormalizeMessage_DropsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{"no content fields", map[string]any{"role": "user"}},
		{"whitespace only", map[string]any{"role": "user", "content": "   "}},
		{"empty parts", map[string]any{"parts": []any{}}},
		{"non-object", "just a string"},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if msg := normalizeMessage(tt.raw); msg != nil {
				t.Errorf("expected nil, got %+v", msg)
			}
		})
	}
}

func TestNormalizeMessage_TimestampPrecedence(t *testing.T) {
	// create_time wins over later fields even when both are present.
	msg := normalizeMessage(mustDecode(t, `{"content":"x","create_time":1700000000,"timestamp":1800000000}`))
	if msg == nil {
		t.Fatal("expected a message")
	}
	want := time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)
	if !msg.Timestamp.Equal(want) {
		t.Errorf("timestamp = %v, want %v", msg.Timestamp, want)
	}

	// No time field at all leaves the timestamp unknown.
	msg = normalizeMessage(mustDecode(t, `{"content":"x"}`))
	if msg == nil || !msg.Timestamp.IsZero() {
		t.Errorf("expected zero timestamp, got %+v", msg)
	}
}
