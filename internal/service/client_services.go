package service

import (
	"github.com/notesafe/notesafe/internal/adapter"
	"github.com/notesafe/notesafe/internal/crypto"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/store"
)

// ClientServices wires the client-side service graph: change log under the
// record service, both under the sync engine, the engine under the
// background job.
type ClientServices struct {
	ChangeLogService ChangeLogService
	RecordService    RecordService
	SyncService      SyncService
	SyncJob          SyncJob
}

// NewClientServices assembles the client services. Pass a nil cipherCtx to
// run the store in plaintext mode; pass a nil serverAdapter when sync is
// disabled (SyncService and SyncJob are then left nil).
func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cipher crypto.CipherService, cipherCtx *crypto.Context, logger *logger.Logger) *ClientServices {
	changeLogSvc := NewChangeLogService(storages.ChangeLogRepository, logger)
	recordSvc := NewRecordService(storages, changeLogSvc, cipher, cipherCtx, logger)

	services := &ClientServices{
		ChangeLogService: changeLogSvc,
		RecordService:    recordSvc,
	}

	if serverAdapter != nil {
		syncSvc := NewSyncService(recordSvc, changeLogSvc, storages.SyncStateRepository, serverAdapter, logger)
		services.SyncService = syncSvc
		services.SyncJob = NewSyncJob(syncSvc)
	}

	return services
}
