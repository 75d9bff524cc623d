package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
)

// Files renders a conversation list into output documents. Per-chat mode
// yields one file per conversation; the grouped modes yield one file per
// calendar bucket.
func Files(convs []model.Conversation, mode model.ExportMode, kind model.SourceKind) []model.OutputFile {
	switch mode {
	case model.ModePerMonth, model.ModePerYear:
		groups := GroupByPeriod(convs, mode)
		files := make([]model.OutputFile, 0, len(groups))
		for _, g := range groups {
			files = append(files, model.OutputFile{
				Name:    GroupFileName(kind, g.Key),
				Content: Group(g, kind),
			})
		}
		return files

	default:
		used := make(map[string]int, len(convs))
		files := make([]model.OutputFile, 0, len(convs))
		for i, conv := range convs {
			name := uniqueName(used, FileName(conv, kind, i+1))
			files = append(files, model.OutputFile{
				Name:    name,
				Content: Conversation(conv, kind),
			})
		}
		return files
	}
}

// uniqueName suffixes repeats; exports routinely contain several
// conversations with the same title.
func uniqueName(used map[string]int, name string) string {
	used[name]++
	if used[name] == 1 {
		return name
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%d%s", base, used[name], ext)
}
