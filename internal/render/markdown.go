package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// messageTimeLayout is the italic per-message line; front matter and the
// metadata bullets use full RFC 3339.
const messageTimeLayout = "2006-01-02 15:04 UTC"

// Conversation renders one conversation as a standalone Markdown document
// with YAML front matter. Unknown times are simply omitted.
func Conversation(conv model.Conversation, kind model.SourceKind) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: \"%s\"\n", escapeYAMLValue(conv.Title))
	fmt.Fprintf(&b, "%s_conversation_id: %s\n", kind.FilePrefix(), conv.ID)
	if !conv.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "created_utc: %s\n", conv.CreatedAt.UTC().Format(time.RFC3339))
	}
	if !conv.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "updated_utc: %s\n", conv.UpdatedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", conv.Title)

	if !conv.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Created: %s\n", conv.CreatedAt.UTC().Format(time.RFC3339))
	}
	if !conv.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "- Updated: %s\n", conv.UpdatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- Messages: %d\n\n", len(conv.Messages))

	b.WriteString("---\n\n")

	writeMessages(&b, conv.Messages, "##")

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Group renders one calendar bucket of conversations as a single document.
// Message headings drop a level so conversation titles keep the ## tier.
func Group(g ConversationGroup, kind model.SourceKind) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %s\n\n", kind.Label(), g.Key)
	fmt.Fprintf(&b, "Conversations: %d\n\n", len(g.Conversations))

	for i, conv := range g.Conversations {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, conv.Title)
		writeMessages(&b, conv.Messages, "###")
		b.WriteString("---\n\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// writeMessages emits the per-message sections at the given heading level,
// each optionally preceded by an italic UTC timestamp line.
func writeMessages(b *strings.Builder, msgs []model.Message, heading string) {
	for _, msg := range msgs {
		if !msg.Timestamp.IsZero() {
			fmt.Fprintf(b, "*%s*\n\n", msg.Timestamp.UTC().Format(messageTimeLayout))
		}
		fmt.Fprintf(b, "%s %s\n\n%s\n\n", heading, msg.Role.Label(), msg.Text)
	}
}

// escapeYAMLValue makes a title safe inside double quotes.
func escapeYAMLValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
