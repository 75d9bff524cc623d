package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// Field precedence lists for conversation-level resolution.
var (
	conversationIDFields   = []string{"id", "conversation_id", "chat_id", "uuid"}
	conversationContainers = []string{"messages", "mapping", "content", "history"}
	createTimeFields       = []string{"create_time", "created_at", "created", "timestamp"}
	updateTimeFields       = []string{"update_time", "updated_at", "updated", "modified"}
)

// parseConversationArray handles an array of conversation records. A record
// survives when it produced at least one message or carried a real title
// from the source (an empty-but-titled conversation still matters to the
// user). An array whose first element is itself a bare message means the
// array IS one conversation rather than a list of them.
func (r *runState) parseConversationArray(items []any) []model.Conversation {
	if len(items) > 0 {
		if first, ok := items[0].(map[string]any); ok && looksLikeMessage(first) {
			return r.parseMessageList(items)
		}
	}

	var out []model.Conversation
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		conv, hasTitle := r.parseConversationItem(m)
		if len(conv.Messages) > 0 || hasTitle {
			out = append(out, conv)
		}
	}
	return out
}

// parseSingleConversation treats the whole document as one conversation
// record. Unlike array parsing there is no source title keeping an empty
// conversation alive; no messages means no output.
func (r *runState) parseSingleConversation(item map[string]any) []model.Conversation {
	conv, _ := r.parseConversationItem(item)
	if len(conv.Messages) == 0 {
		return nil
	}
	return []model.Conversation{conv}
}

// parseConversationItem normalizes one conversation record. The second
// return reports whether the title came from the source rather than being
// synthesized.
func (r *runState) parseConversationItem(item map[string]any) (model.Conversation, bool) {
	n := r.nextIndex()

	title, hasTitle := resolveTitle(item)
	if !hasTitle {
		title = fmt.Sprintf("会話 %d", n)
	}

	var msgs []model.Message
	mapping, hasMapping := item["mapping"].(map[string]any)
	if hasMapping {
		leaf, _ := stringField(item, "current_node")
		msgs = resolveMapping(mapping, leaf)
		r.usedMapping = true
	} else {
		msgs = r.containerMessages(item)
	}

	return model.Conversation{
		ID:        resolveConversationID(item, mapping, n),
		Title:     title,
		CreatedAt: resolveConversationTime(item, createTimeFields),
		UpdatedAt: resolveConversationTime(item, updateTimeFields),
		Messages:  msgs,
	}, hasTitle
}

// containerMessages extracts messages from the first array-typed container
// field. The first array match wins even when it is empty.
func (r *runState) containerMessages(item map[string]any) []model.Message {
	for _, key := range conversationContainers {
		arr, ok := item[key].([]any)
		if !ok {
			continue
		}
		var msgs []model.Message
		for _, el := range arr {
			if msg := normalizeMessage(el); msg != nil {
				msgs = append(msgs, *msg)
			}
		}
		return msgs
	}
	return nil
}

// parseMessageList wraps a bare message array in a single synthesized
// conversation. Conversation times come from the first and last known
// message timestamps since there is no record to read them from.
func (r *runState) parseMessageList(items []any) []model.Conversation {
	n := r.nextIndex()
	var msgs []model.Message
	for _, item := range items {
		if msg := normalizeMessage(item); msg != nil {
			msgs = append(msgs, *msg)
		}
	}
	if len(msgs) == 0 {
		return nil
	}

	conv := model.Conversation{
		ID:       fmt.Sprintf("conversation_%d", n),
		Title:    fmt.Sprintf("会話 %d", n),
		Messages: msgs,
	}
	for _, msg := range msgs {
		if !msg.Timestamp.IsZero() {
			conv.CreatedAt = msg.Timestamp
			break
		}
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].Timestamp.IsZero() {
			conv.UpdatedAt = msgs[i].Timestamp
			break
		}
	}
	return []model.Conversation{conv}
}

// parseTurnArray handles request-style turn lists: objects with a role and
// a parts array, the shape Gemini API captures use. "model" turns become
// assistant messages; turns with no text are skipped.
func (r *runState) parseTurnArray(turns []any) []model.Conversation {
	n := r.nextIndex()
	var msgs []model.Message
	for _, t := range turns {
		turn, ok := t.(map[string]any)
		if !ok {
			continue
		}
		text := ""
		if parts, ok := turn["parts"].([]any); ok {
			text = strings.TrimSpace(joinParts(parts))
		}
		if text == "" {
			continue
		}
		roleStr, _ := stringField(turn, "role")
		msgs = append(msgs, model.Message{Role: canonicalRole(roleStr), Text: text})
	}
	if len(msgs) == 0 {
		return nil
	}
	return []model.Conversation{{
		ID:       fmt.Sprintf("conversation_%d", n),
		Title:    fmt.Sprintf("会話 %d", n),
		Messages: msgs,
	}}
}

// looksLikeMessage distinguishes a message record from a conversation
// record: it names a speaker and carries none of the conversation-level
// markers.
func looksLikeMessage(m map[string]any) bool {
	speaker := false
	for _, key := range []string{"role", "author", "sender", "from"} {
		if _, ok := m[key]; ok {
			speaker = true
			break
		}
	}
	if !speaker {
		return false
	}
	for _, key := range []string{"messages", "mapping", "history", "conversations", "title", "name"} {
		if _, ok := m[key]; ok {
			return false
		}
	}
	return true
}

// resolveConversationID follows the id precedence: the explicit id fields,
// the ChatGPT current_node pointer, the first user node of a mapping, then
// a synthesized ordinal.
func resolveConversationID(item map[string]any, mapping map[string]any, n int) string {
	for _, key := range conversationIDFields {
		if id := scalarString(item[key]); id != "" {
			return id
		}
	}
	if id, _ := stringField(item, "current_node"); id != "" {
		return id
	}
	if mapping != nil {
		if id := firstUserNodeID(mapping); id != "" {
			return id
		}
	}
	return fmt.Sprintf("conversation_%d", n)
}

// resolveTitle prefers title over name; whitespace-only values do not count
// as a source title.
func resolveTitle(item map[string]any) (string, bool) {
	for _, key := range []string{"title", "name"} {
		if s, _ := stringField(item, key); strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

func resolveConversationTime(item map[string]any, fields []string) time.Time {
	for _, key := range fields {
		if v, ok := item[key]; ok && v != nil {
			return normalizeTime(v)
		}
	}
	return time.Time{}
}

// scalarString renders loose id values: strings pass through trimmed,
// integral numbers are formatted without an exponent, everything else is
// ignored.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) && math.Abs(s) < 1e15 {
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}
