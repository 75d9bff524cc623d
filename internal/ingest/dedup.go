package ingest

import (
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// keyPreviewBytes bounds how much of the opening message feeds the key.
const keyPreviewBytes = 100

// Deduper drops conversations already seen during a run. Provider exports
// frequently repeat conversations across files, and re-running over a
// directory must not double up output.
type Deduper struct {
	seen map[string]bool
}

func NewDeduper() *Deduper {
	return &Deduper{seen: make(map[string]bool)}
}

// Filter returns the conversations not seen before and records them.
func (d *Deduper) Filter(convs []model.Conversation) []model.Conversation {
	kept := make([]model.Conversation, 0, len(convs))
	for _, conv := range convs {
		key := conversationKey(conv)
		if d.seen[key] {
			continue
		}
		d.seen[key] = true
		kept = append(kept, conv)
	}
	return kept
}

// conversationKey fingerprints a conversation by id plus opening message
// text. IDs alone are not enough: synthesized ids restart at 1 for every
// input file.
func conversationKey(conv model.Conversation) string {
	first := ""
	if len(conv.Messages) > 0 {
		first = conv.Messages[0].Text
		if len(first) > keyPreviewBytes {
			first = first[:keyPreviewBytes]
		}
	}
	return conv.ID + "\x00" + first
}
