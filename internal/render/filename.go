package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// maxFileNameRunes caps the sanitized title part of an output name.
const maxFileNameRunes = 100

var (
	invalidFileChars   = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespaceRuns     = regexp.MustCompile(`\s+`)
	placeholderTitleRe = regexp.MustCompile(`^会話 [0-9]+$`)
)

// FileName builds the per-chat output name for a conversation. index is the
// conversation's 1-based position in the render. Unusable titles (empty,
// UUID-shaped, or a synthesized placeholder) fall back to a date-based or
// ordinal name so a directory of exports stays navigable.
func FileName(conv model.Conversation, kind model.SourceKind, index int) string {
	title := strings.TrimSpace(conv.Title)
	if usableTitle(title) {
		return sanitizeFileName(title) + ".md"
	}

	prefix := kind.FilePrefix()
	if !conv.CreatedAt.IsZero() {
		return fmt.Sprintf("%s_%s_%03d.md", prefix, conv.CreatedAt.UTC().Format("20060102_1504"), index)
	}
	return fmt.Sprintf("%s_conversation_%03d.md", prefix, index)
}

// GroupFileName names a per-month or per-year output document.
func GroupFileName(kind model.SourceKind, periodKey string) string {
	return fmt.Sprintf("%s_%s.md", kind.FilePrefix(), periodKey)
}

func usableTitle(title string) bool {
	if title == "" || isUUIDShaped(title) {
		return false
	}
	return !placeholderTitleRe.MatchString(title)
}

// isUUIDShaped reports whether a title is nothing but a bare 8-4-4-4-12 hex
// id, which makes a useless file name. Braced and URN forms do not appear
// as titles, so the plain 36-character form is the only one checked.
func isUUIDShaped(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// sanitizeFileName replaces path-hostile characters and whitespace runs
// with underscores and caps the length.
func sanitizeFileName(s string) string {
	s = invalidFileChars.ReplaceAllString(s, "_")
	s = whitespaceRuns.ReplaceAllString(s, "_")
	if runes := []rune(s); len(runes) > maxFileNameRunes {
		s = string(runes[:maxFileNameRunes])
	}
	return s
}
