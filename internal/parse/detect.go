package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// ErrInvalidJSON is the only hard failure Normalize produces. Everything
// else (unknown shapes, missing fields, empty conversations) degrades to a
// smaller result instead of an error.
var ErrInvalidJSON = errors.New("input is not valid JSON")

// Result is the outcome of normalizing one export file.
type Result struct {
	Conversations []model.Conversation
	Source        model.SourceKind
}

// File name cues, matched case-insensitively as substrings. Content cues
// found during parsing override whatever the name suggested.
var (
	geminiNameCues  = []string{"myactivity.json", "マイアクティビティ.json", "my_activity.json", "gemini"}
	chatgptNameCues = []string{"conversations.json", "chatgpt"}
)

// maxScanDepth bounds the generic fallback walk. Real exports are shallow;
// the cap only guards degenerate nesting.
const maxScanDepth = 10

// conversationKeyHints mark object keys worth trying as conversation arrays
// during the generic walk.
var conversationKeyHints = []string{"conversation", "chat", "message", "history"}

// messageMarkerFields identify an array element that looks conversation-ish
// during the generic walk.
var messageMarkerFields = []string{"messages", "content", "parts", "role"}

// Normalize parses one export file into canonical conversations. fileName
// only seeds source detection; it does not have to exist on disk. Invalid
// JSON is the single fatal error.
func Normalize(data []byte, fileName string) (*Result, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	r := &runState{source: sourceFromFileName(fileName)}
	convs := r.parseDocument(doc)

	// A conversation built from a parent-pointer mapping means ChatGPT even
	// when neither the file name nor the top-level shape said so.
	if r.source == model.SourceAI && r.usedMapping {
		r.source = model.SourceChatGPT
	}
	return &Result{Conversations: convs, Source: r.source}, nil
}

// runState threads detection state through one Normalize call. Every call
// builds its own, so concurrent and repeated runs never share
// classification or numbering.
type runState struct {
	source      model.SourceKind
	usedMapping bool
	convCount   int
}

// nextIndex returns the 1-based ordinal used for synthesized ids and
// placeholder titles.
func (r *runState) nextIndex() int {
	r.convCount++
	return r.convCount
}

// parseDocument runs the format detection cascade over the decoded
// document. Checks are ordered most to least specific; the first match
// decides how the whole document is read.
func (r *runState) parseDocument(doc any) []model.Conversation {
	switch v := doc.(type) {
	case []any:
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				if isActivityEntry(first) {
					r.source = model.SourceGemini
					return r.parseActivityLog(v)
				}
				if _, ok := first["mapping"]; ok {
					r.source = model.SourceChatGPT
					return r.parseConversationArray(v)
				}
			}
		}
		return r.parseConversationArray(v)

	case map[string]any:
		if arr, ok := v["conversations"].([]any); ok {
			return r.parseConversationArray(arr)
		}
		for _, key := range []string{"chats", "history"} {
			if arr, ok := v[key].([]any); ok {
				r.source = model.SourceGemini
				return r.parseConversationArray(arr)
			}
		}
		if _, ok := v["messages"]; ok {
			return r.parseSingleConversation(v)
		}
		if _, ok := v["content"]; ok {
			return r.parseSingleConversation(v)
		}
		if arr, ok := v["contents"].([]any); ok {
			r.source = model.SourceGemini
			return r.parseTurnArray(arr)
		}
		return r.scanValue(v, 0)

	default:
		return nil
	}
}

// scanValue is the last-resort walk over an unrecognized document: a
// depth-first search for the first thing that can pass as a conversation
// array. Map keys are visited in sorted order so results are deterministic.
func (r *runState) scanValue(v any, depth int) []model.Conversation {
	if depth > maxScanDepth {
		return nil
	}
	switch val := v.(type) {
	case []any:
		if convs := r.tryConversationArray(val); len(convs) > 0 {
			return convs
		}
		for _, item := range val {
			if convs := r.scanValue(item, depth+1); len(convs) > 0 {
				return convs
			}
		}
	case map[string]any:
		for _, key := range sortedKeys(val) {
			child := val[key]
			if arr, ok := child.([]any); ok {
				if convs := r.tryConversationArray(arr); len(convs) > 0 {
					return convs
				}
				if hasConversationHint(key) {
					if convs := r.parseConversationArray(arr); len(convs) > 0 {
						return convs
					}
				}
			}
			if convs := r.scanValue(child, depth+1); len(convs) > 0 {
				return convs
			}
		}
	}
	return nil
}

// isActivityEntry recognizes a Google activity-log record: a header naming
// Gemini, or the safeHtmlItem answer container no other format carries.
func isActivityEntry(m map[string]any) bool {
	if header, _ := stringField(m, "header"); strings.Contains(header, "Gemini") {
		return true
	}
	_, ok := m["safeHtmlItem"]
	return ok
}

// tryConversationArray parses arr as a conversation array when its first
// element exposes one of the message marker fields.
func (r *runState) tryConversationArray(arr []any) []model.Conversation {
	if len(arr) == 0 {
		return nil
	}
	first, ok := arr[0].(map[string]any)
	if !ok {
		return nil
	}
	for _, key := range messageMarkerFields {
		if _, ok := first[key]; ok {
			return r.parseConversationArray(arr)
		}
	}
	return nil
}

func hasConversationHint(key string) bool {
	lower := strings.ToLower(key)
	for _, hint := range conversationKeyHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// sourceFromFileName gives the tentative classification before any content
// has been looked at.
func sourceFromFileName(name string) model.SourceKind {
	lower := strings.ToLower(name)
	for _, cue := range geminiNameCues {
		if strings.Contains(lower, cue) {
			return model.SourceGemini
		}
	}
	for _, cue := range chatgptNameCues {
		if strings.Contains(lower, cue) {
			return model.SourceChatGPT
		}
	}
	return model.SourceAI
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
