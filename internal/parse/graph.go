package parse

import (
	"sort"
	"strings"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// graphEntry is one mapping node's message payload during resolution.
// sortKey keeps the raw numeric create_time so the fallback ordering does
// not depend on parse precision.
type graphEntry struct {
	id      string
	role    string
	text    string
	ts      time.Time
	sortKey float64
}

// resolveMapping reconstructs a linear, oldest-first message sequence from
// a ChatGPT-style parent-pointer mapping. With a usable leaf id it walks
// the parent chain from the leaf, which yields exactly the active branch of
// the message tree. Without one it falls back to sorting every node by
// timestamp.
func resolveMapping(mapping map[string]any, leafID string) []model.Message {
	if leafID != "" {
		if _, ok := mapping[leafID]; ok {
			return resolveLeafChain(mapping, leafID)
		}
	}
	return resolveByTimestamp(mapping)
}

// resolveLeafChain walks parent pointers newest-first and reverses the
// result. A visited set guards against malformed exports whose parent
// pointers loop.
func resolveLeafChain(mapping map[string]any, leafID string) []model.Message {
	visited := make(map[string]bool, len(mapping))
	var out []model.Message

	for current := leafID; current != "" && !visited[current]; {
		visited[current] = true
		node, ok := mapping[current].(map[string]any)
		if !ok {
			break
		}
		if e := graphEntryOf(current, node); e != nil && (e.role == "user" || e.role == "assistant") {
			out = append(out, model.Message{Role: model.Role(e.role), Text: e.text, Timestamp: e.ts})
		}
		current = parentID(node)
	}

	// The walk produced newest-first; flip to chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// resolveByTimestamp collects every node that carries a non-system message
// and orders by create_time. Missing times sort first; ties break on node
// id so map iteration order never leaks into the output.
func resolveByTimestamp(mapping map[string]any) []model.Message {
	entries := make([]*graphEntry, 0, len(mapping))
	for id, v := range mapping {
		node, ok := v.(map[string]any)
		if !ok {
			continue
		}
		e := graphEntryOf(id, node)
		if e == nil || e.role == "system" {
			continue
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].sortKey != entries[j].sortKey {
			return entries[i].sortKey < entries[j].sortKey
		}
		return entries[i].id < entries[j].id
	})

	msgs := make([]model.Message, 0, len(entries))
	for _, e := range entries {
		role := model.RoleUser
		if e.role == "assistant" || e.role == "model" {
			role = model.RoleAssistant
		}
		msgs = append(msgs, model.Message{Role: role, Text: e.text, Timestamp: e.ts})
	}
	return msgs
}

// graphEntryOf pulls the message payload out of one mapping node. Structural
// nodes (no message) and nodes with no extractable text come back nil.
func graphEntryOf(id string, node map[string]any) *graphEntry {
	msg, ok := node["message"].(map[string]any)
	if !ok {
		return nil
	}
	text := strings.TrimSpace(graphContent(msg))
	if text == "" {
		return nil
	}
	e := &graphEntry{id: id, role: rawRoleOf(msg), text: text}
	if v, ok := msg["create_time"]; ok && v != nil {
		e.ts = normalizeTime(v)
		if f, ok := v.(float64); ok {
			e.sortKey = f
		}
	}
	return e
}

// rawRoleOf resolves the role string without collapsing synonyms. Graph
// resolution filters on the raw value (system and tool nodes are dropped
// before any normalization happens).
func rawRoleOf(msg map[string]any) string {
	if author, ok := msg["author"].(map[string]any); ok {
		if r, _ := stringField(author, "role"); r != "" {
			return strings.ToLower(r)
		}
	}
	if r, _ := stringField(msg, "role"); r != "" {
		return strings.ToLower(r)
	}
	return ""
}

// graphContent extracts text the narrow way mapping nodes store it: content
// as a plain string, or content.parts with its string entries joined by
// newlines. Non-string parts (image pointers etc.) are skipped.
func graphContent(msg map[string]any) string {
	switch c := msg["content"].(type) {
	case string:
		return c
	case map[string]any:
		if parts, ok := c["parts"].([]any); ok {
			var texts []string
			for _, p := range parts {
				if s, ok := p.(string); ok && s != "" {
					texts = append(texts, s)
				}
			}
			return strings.Join(texts, "\n")
		}
	}
	return ""
}

// parentID reads a node's parent pointer, tolerating null and absent values.
func parentID(node map[string]any) string {
	if p, ok := node["parent"].(string); ok {
		return p
	}
	return ""
}

// firstUserNodeID finds the earliest user-authored node in a mapping, used
// as a conversation id when the record itself has none. Synthetic client-
// generated root ids are skipped. Ties prefer the smaller node key so the
// choice is deterministic across runs.
func firstUserNodeID(mapping map[string]any) string {
	best := ""
	bestKey := 0.0
	for id, v := range mapping {
		if strings.HasPrefix(id, "client-") {
			continue
		}
		node, ok := v.(map[string]any)
		if !ok {
			continue
		}
		msg, ok := node["message"].(map[string]any)
		if !ok {
			continue
		}
		if rawRoleOf(msg) != "user" {
			continue
		}
		key := 0.0
		if f, ok := msg["create_time"].(float64); ok {
			key = f
		}
		if best == "" || key < bestKey || (key == bestKey && id < best) {
			best, bestKey = id, key
		}
	}
	return best
}
