package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// activityPrefix is the literal Google Takeout prepends to the user's text
// in a Gemini activity entry title.
const activityPrefix = "送信したメッセージ:"

// activityTitleMax caps how much of the question becomes the conversation
// title.
const activityTitleMax = 50

// parseActivityLog converts a Gemini (My Activity) export into one
// conversation per question/answer pair. The source lists entries newest
// first, so the array is walked backwards to restore chronological order;
// ids and placeholder numbering follow that reversed order.
func (r *runState) parseActivityLog(entries []any) []model.Conversation {
	var out []model.Conversation
	for i := len(entries) - 1; i >= 0; i-- {
		n := len(entries) - i

		entry, ok := entries[i].(map[string]any)
		if !ok {
			continue
		}

		userText := ""
		if title, _ := stringField(entry, "title"); title != "" {
			userText = strings.TrimSpace(strings.TrimPrefix(title, activityPrefix))
		}

		assistantText := ""
		if items, ok := entry["safeHtmlItem"].([]any); ok && len(items) > 0 {
			if item, ok := items[0].(map[string]any); ok {
				if html, _ := stringField(item, "html"); html != "" {
					assistantText = htmlToText(html)
				}
			}
		}

		ts := time.Time{}
		if v, ok := entry["time"]; ok && v != nil {
			ts = normalizeTime(v)
		}

		var msgs []model.Message
		if userText != "" {
			msgs = append(msgs, model.Message{Role: model.RoleUser, Text: userText, Timestamp: ts})
		}
		if assistantText != "" {
			msgs = append(msgs, model.Message{Role: model.RoleAssistant, Text: assistantText, Timestamp: ts})
		}
		if len(msgs) == 0 {
			continue
		}

		title := userText
		if runes := []rune(title); len(runes) > activityTitleMax {
			title = string(runes[:activityTitleMax]) + "..."
		}
		if title == "" {
			title = fmt.Sprintf("会話 %d", n)
		}

		out = append(out, model.Conversation{
			ID:        fmt.Sprintf("gemini_activity_%d", n),
			Title:     title,
			CreatedAt: ts,
			UpdatedAt: ts,
			Messages:  msgs,
		})
	}
	return out
}
