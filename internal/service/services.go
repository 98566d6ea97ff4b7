package service

import (
	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/store"
)

// Services is the server-side service set consumed by the HTTP handlers.
type Services struct {
	AuthService AuthService
	SyncService ServerSyncService
}

func NewServices(storages *store.Storages, cfg config.ServerAuth, logger *logger.Logger) *Services {
	return &Services{
		AuthService: NewAuthService(cfg, logger),
		SyncService: NewServerSyncService(storages.RecordRepository, logger),
	}
}
