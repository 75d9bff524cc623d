package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/events"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/model"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/parse"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/render"
	"github.com/greenwind517-crypto/ai-chat-to-markdown/internal/store"
)

// Config holds the conversion run configuration.
type Config struct {
	InputDir   string
	SingleFile string // convert a single file only
	OutputDir  string
	Mode       model.ExportMode
	StatePath  string
	Force      bool // reconvert files already recorded in state
}

// Runner orchestrates file discovery, conversion and output writing.
type Runner struct {
	cfg    Config
	store  *store.Store   // optional: archives runs to Postgres
	events *events.Client // optional: announces completed runs
	logger *slog.Logger
	dedupe *Deduper
}

// NewRunner creates a conversion runner. Both store and events may be nil;
// the converter works standalone.
func NewRunner(cfg Config, st *store.Store, ev *events.Client, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		store:  st,
		events: ev,
		logger: logger,
		dedupe: NewDeduper(),
	}
}

// Run converts every discovered export file and writes Markdown output.
func (r *Runner) Run(ctx context.Context) error {
	state, err := LoadState(r.cfg.StatePath)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	files, err := r.discoverFiles()
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	r.logger.Info("files discovered", "count", len(files))

	totalConvs := 0
	totalWritten := 0
	processed := 0

	for _, path := range files {
		select {
		case <-ctx.Done():
			r.logger.Info("run interrupted, saving state")
			_ = state.Save()
			return ctx.Err()
		default:
		}

		if !r.cfg.Force && state.IsProcessed(path) {
			r.logger.Info("skipping converted file", "path", path)
			continue
		}

		convs, written, err := r.ProcessFile(ctx, path)
		if err != nil {
			r.logger.Warn("failed to process file", "path", path, "error", err)
			state.AddError(fmt.Sprintf("process %s: %v", path, err))
			continue
		}

		totalConvs += convs
		totalWritten += written
		processed++

		state.MarkProcessed(path)
		state.Conversations += convs
		state.FilesWritten += written
		_ = state.Save()
	}

	// Final save.
	_ = state.Save()

	r.logger.Info("run complete",
		"files_processed", processed,
		"conversations", totalConvs,
		"files_written", totalWritten,
	)

	fmt.Printf("\n=== Conversion Summary ===\n")
	fmt.Printf("Files processed: %d\n", processed)
	fmt.Printf("Conversations: %d\n", totalConvs)
	fmt.Printf("Markdown files written: %d\n", totalWritten)
	fmt.Printf("Errors: %d\n", len(state.Errors))
	fmt.Printf("Output directory: %s\n", r.cfg.OutputDir)

	return nil
}

// ProcessFile converts one export file. It returns the number of
// conversations converted and Markdown files written.
func (r *Runner) ProcessFile(ctx context.Context, path string) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read file: %w", err)
	}

	result, err := parse.Normalize(data, filepath.Base(path))
	if err != nil {
		return 0, 0, err
	}

	convs := r.dedupe.Filter(result.Conversations)
	if dropped := len(result.Conversations) - len(convs); dropped > 0 {
		r.logger.Info("dropped duplicate conversations", "path", path, "count", dropped)
	}

	files := render.Files(convs, r.cfg.Mode, result.Source)

	written, err := r.writeFiles(files)
	if err != nil {
		return 0, 0, err
	}

	messages := 0
	for _, conv := range convs {
		messages += len(conv.Messages)
	}

	r.logger.Info("file converted",
		"path", path,
		"source", result.Source.String(),
		"conversations", len(convs),
		"messages", messages,
		"files_written", written,
	)

	r.archive(ctx, filepath.Base(path), result.Source, convs, messages, written)
	r.announce(filepath.Base(path), result.Source, len(convs), messages, written)

	return len(convs), written, nil
}

func (r *Runner) writeFiles(files []model.OutputFile) (int, error) {
	if len(files) == 0 {
		return 0, nil
	}
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir output: %w", err)
	}

	written := 0
	for _, f := range files {
		path, err := uniquePath(filepath.Join(r.cfg.OutputDir, f.Name))
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written++
	}
	return written, nil
}

// uniquePath suffixes the file name until it no longer collides with
// output from an earlier run.
func uniquePath(path string) (string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, nil
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; i < 1000; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no free name for %s", path)
}

// archive records the run in Postgres when a store is configured.
// Archive failures never fail the conversion.
func (r *Runner) archive(ctx context.Context, inputFile string, source model.SourceKind, convs []model.Conversation, messages, written int) {
	if r.store == nil {
		return
	}

	runID, err := r.store.SaveRun(ctx, store.RunRecord{
		InputFile:     inputFile,
		Source:        source.String(),
		Conversations: len(convs),
		Messages:      messages,
		OutputFiles:   written,
	})
	if err != nil {
		r.logger.Warn("failed to archive run", "input_file", inputFile, "error", err)
		return
	}

	for _, conv := range convs {
		if _, err := r.store.SaveConversation(ctx, runID, source.String(), conv); err != nil {
			r.logger.Warn("failed to archive conversation", "id", conv.ID, "error", err)
		}
	}
}

// announce publishes a run-completed event when NATS is configured.
func (r *Runner) announce(inputFile string, source model.SourceKind, convs, messages, written int) {
	if r.events == nil {
		return
	}

	err := r.events.Publish(events.SubjectRunCompleted, events.RunCompleted{
		InputFile:     inputFile,
		Source:        source.String(),
		Conversations: convs,
		Messages:      messages,
		OutputFiles:   written,
		CompletedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		r.logger.Warn("failed to publish run event", "input_file", inputFile, "error", err)
	}
}

func (r *Runner) discoverFiles() ([]string, error) {
	if r.cfg.SingleFile != "" {
		path := expandHome(r.cfg.SingleFile)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("input file not found: %s", path)
		}
		return []string{path}, nil
	}

	dir := expandHome(r.cfg.InputDir)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("input dir not found: %s", dir)
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(info.Name()), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("error walking input dir", "dir", dir, "error", err)
	}

	sort.Strings(files)
	return files, nil
}
