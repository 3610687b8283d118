package worker

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"image-watermarker/internal/broker"
	"image-watermarker/internal/domain"
	"image-watermarker/internal/ledger"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

type State string

const (
	StateIdle     State = "idle"
	StateScanning State = "scanning"
)

type Options struct {
	InputDir     string
	OutputDir    string
	Interval     time.Duration
	ResetOnStart bool
}

// Worker scans the input tree on a fixed interval and watermarks every image
// whose name is not yet in the ledger.
type Worker struct {
	opts      Options
	store     ledger.Store
	processor imageProcessor
	output    outputStore
	mirror    outputStore
	publisher broker.Publisher
	logger    *zlog.Zerolog

	state atomic.Value

	mu   sync.RWMutex
	last *domain.PassSummary
}

func NewWorker(opts Options, store ledger.Store, proc imageProcessor, output outputStore, logger *zlog.Zerolog) *Worker {
	if opts.Interval <= 0 {
		opts.Interval = domain.DefaultPollInterval * time.Second
	}

	w := &Worker{
		opts:      opts,
		store:     store,
		processor: proc,
		output:    output,
		publisher: broker.NopPublisher{},
		logger:    logger,
	}
	w.state.Store(StateIdle)
	return w
}

// WithMirror uploads every written output to a secondary store as well.
func (w *Worker) WithMirror(m outputStore) *Worker {
	w.mirror = m
	return w
}

func (w *Worker) WithPublisher(p broker.Publisher) *Worker {
	if p != nil {
		w.publisher = p
	}
	return w
}

func (w *Worker) State() State {
	return w.state.Load().(State)
}

// LastPass returns a copy of the most recent pass summary.
func (w *Worker) LastPass() (domain.PassSummary, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.last == nil {
		return domain.PassSummary{}, false
	}
	s := *w.last
	s.Results = append([]domain.FileResult(nil), w.last.Results...)
	return s, true
}

func (w *Worker) Ledger(ctx context.Context) ([]string, error) {
	set, err := ledger.Load(ctx, w.store)
	if err != nil {
		return nil, err
	}
	return set.Names(), nil
}

func (w *Worker) ResetLedger(ctx context.Context) error {
	if err := ledger.Reset(ctx, w.store); err != nil {
		return err
	}
	w.logger.Info().Msg("Ledger reset")
	return nil
}

// Run executes passes until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().
		Str("input", w.opts.InputDir).
		Str("output", w.opts.OutputDir).
		Dur("interval", w.opts.Interval).
		Msg("Starting watermark worker")

	if w.opts.ResetOnStart {
		if err := w.ResetLedger(ctx); err != nil {
			return fmt.Errorf("failed to reset ledger on start: %w", err)
		}
	}

	for {
		if _, err := w.RunPass(ctx); err != nil {
			if ctx.Err() != nil {
				w.logger.Info().Msg("Worker stopped")
				return nil
			}
			w.logger.Error().Err(err).Msg("Pass failed")
		}

		timer := time.NewTimer(w.opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info().Msg("Worker stopped")
			return nil
		case <-timer.C:
		}
	}
}

// RunPass performs one full scan. Files already in the ledger are carried
// forward untouched, new files are watermarked, and the ledger is rewritten
// once at the end. Per-file failures never abort the pass.
func (w *Worker) RunPass(ctx context.Context) (*domain.PassSummary, error) {
	w.state.Store(StateScanning)
	defer w.state.Store(StateIdle)

	summary := &domain.PassSummary{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
	}
	log := w.logger.With().Str("pass_id", summary.ID).Logger()

	for _, dir := range []string{w.opts.OutputDir, w.opts.InputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to ensure directory %s: %w", dir, err)
		}
	}

	done, err := ledger.Load(ctx, w.store)
	if err != nil {
		return nil, err
	}

	next := ledger.NewSet()
	seen := make(map[string]string)
	outputDir := filepath.Clean(w.opts.OutputDir)

	walkErr := filepath.WalkDir(w.opts.InputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.opts.InputDir {
				return err
			}
			log.Warn().Err(err).Str("path", path).Msg("Failed to read entry, skipping")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if path != w.opts.InputDir && filepath.Clean(path) == outputDir {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !domain.IsAcceptedImage(name) {
			return nil
		}

		if prev, ok := seen[name]; ok {
			log.Warn().
				Str("file", name).
				Str("path", path).
				Str("previous", prev).
				Msg("Name collision in input tree, later file overwrites earlier output")
		}
		seen[name] = path

		if done.Contains(name) {
			next.Add(name)
			summary.Add(domain.FileResult{Name: name, Path: path, Status: domain.FileStatusDuplicate})
			return nil
		}

		result := w.safeProcessFile(ctx, path, name)
		if result.Status == domain.FileStatusSuccess {
			next.Add(name)
		}
		summary.Add(result)
		return nil
	})

	interrupted := errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded)
	if interrupted {
		// Entries past the point of interruption were never visited; keep them.
		for _, name := range done.Names() {
			next.Add(name)
		}
		log.Warn().Err(walkErr).Msg("Pass interrupted, keeping previous ledger entries")
	}

	persistCtx := context.WithoutCancel(ctx)
	if err := ledger.Persist(persistCtx, w.store, next); err != nil {
		summary.LedgerError = err.Error()
		log.Error().Err(err).Msg("Failed to persist ledger")
	}
	summary.LedgerSize = next.Len()
	summary.FinishedAt = time.Now()

	w.mu.Lock()
	w.last = summary
	w.mu.Unlock()

	log.Info().
		Int("processed", summary.Processed).
		Int("duplicates", summary.Duplicates).
		Int("failed", summary.Failed).
		Int("ledger_size", summary.LedgerSize).
		Dur("duration", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("Pass completed")

	if err := w.publisher.PublishPass(persistCtx, summary); err != nil {
		log.Warn().Err(err).Msg("Failed to publish pass summary")
	}

	if walkErr != nil {
		if interrupted {
			return summary, walkErr
		}
		return summary, fmt.Errorf("failed to walk input directory: %w", walkErr)
	}

	return summary, nil
}

func (w *Worker) safeProcessFile(ctx context.Context, path, name string) (result domain.FileResult) {
	start := time.Now()
	result = domain.FileResult{Name: name, Path: path}

	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().
				Str("file", name).
				Str("path", path).
				Interface("panic", r).
				Msg("Panic recovered while processing file")
			result.Status = domain.FileStatusFailed
			result.Error = fmt.Sprintf("panic: %v", r)
		}
		result.Duration = time.Since(start)
	}()

	if err := w.processFile(ctx, path, name, &result); err != nil {
		w.logger.Error().
			Err(err).
			Str("file", name).
			Str("path", path).
			Msg("Failed to process file, will retry on next pass")
		result.Status = domain.FileStatusFailed
		result.Error = err.Error()
		return result
	}

	result.Status = domain.FileStatusSuccess
	return result
}

func (w *Worker) processFile(ctx context.Context, path, name string, result *domain.FileResult) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := w.processor.Process(ctx, name, data)
	if err != nil {
		return err
	}
	result.Variant = res.Report.Variant
	result.Skipped = res.Report.Skipped

	outPath, err := w.output.Save(ctx, name, res.Data, res.ContentType)
	if err != nil {
		return fmt.Errorf("failed to write output for %s: %w", name, err)
	}

	if w.mirror != nil {
		if key, err := w.mirror.Save(ctx, name, res.Data, res.ContentType); err != nil {
			w.logger.Warn().Err(err).Str("file", name).Msg("Failed to mirror output")
		} else {
			w.logger.Debug().Str("file", name).Str("key", key).Msg("Output mirrored")
		}
	}

	w.logger.Info().
		Str("file", name).
		Str("output", outPath).
		Str("variant", string(res.Report.Variant)).
		Msg("Watermarked file")

	return nil
}
