package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/parse"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/render"
)

// maxBodyBytes caps convert request bodies. Browser exports run to tens of
// megabytes at most; anything larger should go through the CLI.
const maxBodyBytes = 10 << 20

// ConvertResponse is the payload returned by POST /api/v1/convert.
type ConvertResponse struct {
	Source        string             `json:"source"`
	Conversations int                `json:"conversations"`
	Messages      int                `json:"messages"`
	Files         []model.OutputFile `json:"files"`
}

// convert handles POST /api/v1/convert. The body is a raw export file;
// mode and filename arrive as query parameters.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	mode, err := model.ParseExportMode(r.URL.Query().Get("mode"))
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%v"}`, err), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, `{"error":"request body too large"}`, http.StatusRequestEntityTooLarge)
		return
	}

	result, err := parse.Normalize(body, r.URL.Query().Get("filename"))
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"error":"%v"}`, err), http.StatusBadRequest)
		return
	}

	files := render.Files(result.Conversations, mode, result.Source)
	messages := 0
	for _, conv := range result.Conversations {
		messages += len(conv.Messages)
	}

	slog.Info("converted export",
		"source", result.Source.String(),
		"conversations", len(result.Conversations),
		"messages", messages,
		"files", len(files),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ConvertResponse{
		Source:        result.Source.String(),
		Conversations: len(result.Conversations),
		Messages:      messages,
		Files:         files,
	})
}
