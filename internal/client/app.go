package client

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/notesafe/notesafe/internal/adapter"
	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/crypto"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/service"
	"github.com/notesafe/notesafe/internal/store"
	"github.com/notesafe/notesafe/internal/workers"
)

type App struct {
	cfg       *config.ClientConfig
	services  *service.ClientServices
	cipher    crypto.CipherService
	cipherCtx *crypto.Context

	logger *logger.Logger
}

// NewApp assembles the client daemon: the encrypted local store, the server
// adapter (when sync is enabled), and the service graph on top of them.
func NewApp(cfg *config.ClientConfig, logger *logger.Logger) (*App, error) {
	cipher := crypto.NewCipherService()

	var cipherCtx *crypto.Context
	if cfg.Security.EncryptionEnabled {
		key, err := crypto.LoadOrCreateKeyFile(cfg.Security.KeyFilePath)
		if err != nil {
			return nil, fmt.Errorf("load data key: %w", err)
		}
		if cipherCtx, err = cipher.LoadContext(key); err != nil {
			return nil, fmt.Errorf("bind data key: %w", err)
		}
	} else {
		logger.Warn().Msg("encryption at rest is disabled, records are stored in plaintext")
	}

	storages, err := store.NewClientStorages(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	var serverAdapter adapter.ServerAdapter
	if cfg.Sync.Enabled {
		if serverAdapter, err = adapter.NewHTTPServerAdapter(cfg.Sync, logger); err != nil {
			return nil, fmt.Errorf("create server adapter: %w", err)
		}
	}

	services := service.NewClientServices(storages, serverAdapter, cipher, cipherCtx, logger)

	return &App{
		cfg:       cfg,
		services:  services,
		cipher:    cipher,
		cipherCtx: cipherCtx,
		logger:    logger,
	}, nil
}

// Run starts the daemon and blocks until a termination signal arrives. When
// sync is enabled an immediate first cycle runs before the periodic job
// starts; its failure is logged but never fatal, offline start is a normal
// condition.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()
	defer a.close()

	if a.cfg.Security.RotateKey {
		return a.rotateKey(ctx)
	}

	background := workers.NewWorkers()

	if a.cfg.Sync.Enabled {
		if err := a.services.SyncService.Sync(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("initial sync failed, will retry on schedule")
		}
		background.Add(&syncWorker{
			job:      a.services.SyncJob,
			interval: a.cfg.Sync.Interval,
		})
	} else {
		a.logger.Info().Msg("sync is disabled, running local-only")
	}

	a.logger.Info().Msg("client daemon started")
	background.Run(ctx)
	a.logger.Info().Msg("client daemon stopped")

	return nil
}

func (a *App) close() {
	if a.cipherCtx != nil {
		a.cipherCtx.Close()
	}
}

// rotateKey re-encrypts every stored record under a freshly generated data
// key and swaps the key file. The new key is staged next to the old one and
// renamed into place only after the re-encryption pass finishes, so an
// interrupted rotation leaves the original key file intact.
func (a *App) rotateKey(ctx context.Context) error {
	if a.cipherCtx == nil {
		return errors.New("key rotation requires encryption at rest to be enabled")
	}

	newKey := make([]byte, crypto.KeySize)
	if _, err := io.ReadFull(rand.Reader, newKey); err != nil {
		return fmt.Errorf("generate rotation key: %w", err)
	}
	newCtx, err := a.cipher.LoadContext(newKey)
	if err != nil {
		return fmt.Errorf("bind rotation key: %w", err)
	}
	defer newCtx.Close()

	stagedPath := a.cfg.Security.KeyFilePath + ".new"
	if err = crypto.WriteKeyFile(stagedPath, newCtx); err != nil {
		return fmt.Errorf("stage rotation key: %w", err)
	}

	reencrypted, failed, err := a.services.RecordService.ReencryptAll(ctx, a.cipherCtx, newCtx)
	if err != nil {
		if removeErr := os.Remove(stagedPath); removeErr != nil {
			a.logger.Warn().Err(removeErr).Msg("could not remove staged rotation key")
		}
		return fmt.Errorf("re-encrypt store: %w", err)
	}

	if err = os.Rename(stagedPath, a.cfg.Security.KeyFilePath); err != nil {
		return fmt.Errorf("replace key file: %w", err)
	}

	a.logger.Info().
		Int("reencrypted", reencrypted).
		Int("failed", failed).
		Msg("key rotation finished")

	return nil
}

// syncWorker adapts the periodic sync job to the workers contract.
type syncWorker struct {
	job      service.SyncJob
	interval time.Duration
}

func (w *syncWorker) Run(ctx context.Context) {
	w.job.Start(ctx, w.interval)
	<-ctx.Done()
	w.job.Stop()
}
