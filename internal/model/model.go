package model

import (
	"fmt"
	"strings"
	"time"
)

// Role identifies the speaker of a message. Source exports use many
// spellings (model, gemini, ai, bot, human); normalization collapses
// all of them onto these two.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Label returns the heading text used for this role in rendered Markdown.
func (r Role) Label() string {
	if r == RoleUser {
		return "User"
	}
	return "Assistant"
}

// SourceKind identifies which service an export came from. The zero value
// is the generic fallback used when neither file name nor content gives a
// stronger signal.
type SourceKind int

const (
	SourceAI SourceKind = iota
	SourceChatGPT
	SourceGemini
)

func (k SourceKind) String() string {
	switch k {
	case SourceChatGPT:
		return "chatgpt"
	case SourceGemini:
		return "gemini"
	default:
		return "ai"
	}
}

// Label is the human-facing service name used in grouped document titles.
func (k SourceKind) Label() string {
	switch k {
	case SourceChatGPT:
		return "ChatGPT"
	case SourceGemini:
		return "Gemini"
	default:
		return "AI Chat"
	}
}

// FilePrefix is the slug used in generated file names and front-matter keys.
func (k SourceKind) FilePrefix() string {
	switch k {
	case SourceChatGPT:
		return "chatgpt"
	case SourceGemini:
		return "gemini"
	default:
		return "ai_chat"
	}
}

// ExportMode selects how conversations are partitioned into output files:
// one file per conversation, or one file per calendar month or year.
type ExportMode int

const (
	ModePerChat ExportMode = iota
	ModePerMonth
	ModePerYear
)

// ParseExportMode maps the CLI and API spellings onto an ExportMode. The
// empty string selects per-chat output.
func ParseExportMode(s string) (ExportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chat", "per_chat":
		return ModePerChat, nil
	case "month", "per_month":
		return ModePerMonth, nil
	case "year", "per_year":
		return ModePerYear, nil
	default:
		return ModePerChat, fmt.Errorf("unknown export mode %q", s)
	}
}

func (m ExportMode) String() string {
	switch m {
	case ModePerMonth:
		return "month"
	case ModePerYear:
		return "year"
	default:
		return "chat"
	}
}

// Message is one turn of a normalized conversation. A zero Timestamp means
// the source carried no usable time for this message.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the canonical record every supported export shape is
// normalized into. CreatedAt and UpdatedAt stay zero when the source had
// no conversation-level times.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Messages  []Message `json:"messages"`
}

// OutputFile is one rendered Markdown document, named and ready to write.
type OutputFile struct {
	Name    string `json:"filename"`
	Content string `json:"content"`
}
