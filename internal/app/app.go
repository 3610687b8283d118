package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"image-watermarker/internal/broker"
	kafka_impl "image-watermarker/internal/broker/kafka"
	"image-watermarker/internal/config"
	"image-watermarker/internal/domain"
	"image-watermarker/internal/http-server/handler/status"
	"image-watermarker/internal/http-server/router"
	"image-watermarker/internal/ledger"
	minio_repo "image-watermarker/internal/repository/image/cloud/minio"
	fs_repo "image-watermarker/internal/repository/image/fs"
	postgres_ledger "image-watermarker/internal/repository/ledger/db/postgres"
	file_ledger "image-watermarker/internal/repository/ledger/file"
	"image-watermarker/internal/usecase/processor"
	"image-watermarker/internal/usecase/processor/operations"
	"image-watermarker/internal/worker"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"
)

type App struct {
	cfg       *config.Config
	logger    *zlog.Zerolog
	worker    *worker.Worker
	server    *http.Server
	db        *dbpg.DB
	publisher broker.Publisher
}

// NewApp builds every collaborator from cfg. Any failure here is fatal: no
// file is processed with a half-built pipeline.
func NewApp(ctx context.Context, cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
	retries := cfg.DefaultRetryStrategy()

	wm, err := newWatermarker(cfg)
	if err != nil {
		return nil, err
	}
	proc := processor.NewImageProcessor(wm, cfg.Pipeline.JPEGQuality, logger)

	a := &App{
		cfg:       cfg,
		logger:    logger,
		publisher: broker.NopPublisher{},
	}

	store, err := a.newLedgerStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	output, err := fs_repo.NewDirectoryStore(cfg.Pipeline.OutputDir)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create output store: %w", err)
	}

	a.worker = worker.NewWorker(worker.Options{
		InputDir:     cfg.Pipeline.InputDir,
		OutputDir:    cfg.Pipeline.OutputDir,
		Interval:     cfg.Pipeline.Interval,
		ResetOnStart: cfg.Pipeline.ResetOnStart,
	}, store, proc, output, logger)

	if cfg.Storage.Enabled {
		mirror, err := minio_repo.NewMinIORepository(cfg, retries, logger)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create file repository: %w", err)
		}
		if err := mirror.EnsureBucket(ctx); err != nil {
			a.close()
			return nil, err
		}
		a.worker.WithMirror(mirror)
	}

	if cfg.Kafka.Enabled {
		a.publisher = kafka_impl.NewProducerClient(cfg, retries)
		a.worker.WithPublisher(a.publisher)
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Publishing pass summaries")
	}

	if cfg.Server.Enabled {
		mux := router.SetupRouter(&router.Handler{
			StatusHandler: status.NewStatusHandler(a.worker, logger),
			Logger:        logger,
		})
		a.server = &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      mux,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}
	}

	return a, nil
}

func newWatermarker(cfg *config.Config) (*operations.Watermarker, error) {
	wc, err := cfg.WatermarkConfig()
	if err != nil {
		return nil, err
	}

	var (
		assets *operations.AssetSet
		text   *operations.TextRenderer
	)
	switch wc.Mode {
	case domain.ModeImage:
		assets, err = operations.LoadAssetSet(wc.Assets)
		if err != nil {
			return nil, fmt.Errorf("failed to load watermark assets: %w", err)
		}
	case domain.ModeText:
		text, err = operations.NewTextRenderer(wc.Text.FontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load font: %w", err)
		}
	}

	return operations.NewWatermarker(wc, assets, text)
}

func (a *App) newLedgerStore(ctx context.Context) (ledger.Store, error) {
	if a.cfg.Ledger.Backend != "postgres" {
		return file_ledger.NewLedgerRepository(a.cfg.Pipeline.LedgerPath), nil
	}

	db, err := dbpg.New(a.cfg.DBDSN(), []string{}, &dbpg.Options{
		MaxOpenConns:    a.cfg.DB.MaxOpenConns,
		MaxIdleConns:    a.cfg.DB.MaxIdleConns,
		ConnMaxLifetime: a.cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	repo, err := postgres_ledger.NewLedgerRepository(db, a.cfg.Ledger.Table, a.cfg.DefaultRetryStrategy())
	if err != nil {
		return nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// Run polls until ctx is cancelled, serving the status API alongside when
// it is enabled.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErr := make(chan error, 1)
	if a.server != nil {
		go func() {
			a.logger.Info().Str("addr", a.server.Addr).Msg("Starting status server")
			if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
				cancel()
			}
		}()
	}

	runErr := a.worker.Run(ctx)

	if a.server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}
	}

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	default:
	}

	if runErr != nil {
		return runErr
	}

	a.logger.Info().Msg("Stopped gracefully")
	return nil
}

// RunOnce performs a single pass and returns its summary.
func (a *App) RunOnce(ctx context.Context) (*domain.PassSummary, error) {
	defer a.close()

	if a.cfg.Pipeline.ResetOnStart {
		if err := a.worker.ResetLedger(ctx); err != nil {
			return nil, err
		}
	}

	return a.worker.RunPass(ctx)
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close publisher")
		}
	}

	if a.db != nil && a.db.Master != nil {
		if err := a.db.Master.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database")
		}
	}
}
