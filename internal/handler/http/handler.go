package http

import (
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/service"
	"github.com/notesafe/notesafe/internal/store"
)

type Handler struct {
	services   *service.Services
	classifier *store.PostgresErrorClassifier

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:   services,
		classifier: store.NewPostgresErrorClassifier(),
		logger:     logger,
	}
}
