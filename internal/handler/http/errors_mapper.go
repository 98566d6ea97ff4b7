package http

import (
	"errors"
	"net/http"

	"github.com/notesafe/notesafe/internal/service"
	"github.com/notesafe/notesafe/internal/store"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrDecodePayload:       http.StatusBadRequest,
	service.ErrUnknownEntityKind:   http.StatusBadRequest,
	service.ErrUnknownChangeKind:   http.StatusBadRequest,
	service.ErrInvalidAPIKey:       http.StatusUnauthorized,
	service.ErrInvalidToken:        http.StatusUnauthorized,

	store.ErrRecordNotFound: http.StatusNotFound,
}

// statusFromError maps a service-layer error to an HTTP status. Transient
// database failures become 503 so the client's retry logic kicks in; all
// other unrecognised errors are a plain 500.
func (h *Handler) statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}

	if h.classifier.Classify(err) == store.Retryable {
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
