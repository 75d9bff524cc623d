package parse

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// messageTimeFields is the precedence order for message-level timestamps.
// The first field present wins; its value then goes through normalizeTime.
var messageTimeFields = []string{"create_time", "created_at", "timestamp", "time", "date"}

// normalizeMessage maps one raw message record of unknown shape onto the
// canonical role/text/timestamp triple. Records with no usable text are
// dropped (nil).
func normalizeMessage(raw any) *model.Message {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	text := strings.TrimSpace(resolveContent(m))
	if text == "" {
		return nil
	}
	return &model.Message{
		Role:      resolveRole(m),
		Text:      text,
		Timestamp: resolveMessageTime(m),
	}
}

// resolveRole walks the role field precedence: role, then author (a plain
// string or an object with a role field), then sender, then from. Empty
// resolutions fall through to the next candidate.
func resolveRole(m map[string]any) model.Role {
	raw, _ := stringField(m, "role")
	if raw == "" {
		switch a := m["author"].(type) {
		case string:
			raw = a
		case map[string]any:
			raw, _ = stringField(a, "role")
		}
	}
	if raw == "" {
		raw, _ = stringField(m, "sender")
	}
	if raw == "" {
		raw, _ = stringField(m, "from")
	}
	return canonicalRole(raw)
}

// canonicalRole collapses the service synonyms onto assistant; "human" and
// every unrecognized or missing value resolve to user.
func canonicalRole(raw string) model.Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "assistant", "model", "gemini", "ai", "bot":
		return model.RoleAssistant
	default:
		return model.RoleUser
	}
}

// resolveContent walks the content field precedence from the most explicit
// shape down to a stringified `message` fallback: content as a string,
// content.parts, content.text, top-level parts, top-level text, message.
func resolveContent(m map[string]any) string {
	switch c := m["content"].(type) {
	case string:
		if c != "" {
			return c
		}
	case map[string]any:
		if parts, ok := c["parts"].([]any); ok {
			if text := joinParts(parts); text != "" {
				return text
			}
		}
		if text, _ := stringField(c, "text"); text != "" {
			return text
		}
	}
	if parts, ok := m["parts"].([]any); ok {
		if text := joinParts(parts); text != "" {
			return text
		}
	}
	if text, _ := stringField(m, "text"); text != "" {
		return text
	}
	if v, ok := m["message"]; ok {
		return stringifyValue(v)
	}
	return ""
}

// joinParts keeps entries that are plain strings or objects with a text
// field and joins the survivors with newlines. Attachment stubs and other
// non-text parts drop out here.
func joinParts(parts []any) string {
	var texts []string
	for _, p := range parts {
		switch part := p.(type) {
		case string:
			if part != "" {
				texts = append(texts, part)
			}
		case map[string]any:
			if text, _ := stringField(part, "text"); text != "" {
				texts = append(texts, text)
			}
		}
	}
	return strings.Join(texts, "\n")
}

// stringifyValue renders the message fallback field: strings pass through,
// anything else is re-encoded as compact JSON.
func stringifyValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func resolveMessageTime(m map[string]any) time.Time {
	for _, key := range messageTimeFields {
		if v, ok := m[key]; ok && v != nil {
			return normalizeTime(v)
		}
	}
	return time.Time{}
}

func stringField(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
