package adapter

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/notesafe/notesafe/internal/config"
	"github.com/notesafe/notesafe/internal/logger"
	"github.com/notesafe/notesafe/internal/utils"
	"github.com/notesafe/notesafe/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	apiKey   string
	compress bool

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// cfg.Endpoint and configures the underlying HTTP client with the resolved
// base URL and request timeout. When cfg.Compression is set, request bodies
// are gzip-compressed before transmission.
//
// Returns an error if cfg.Endpoint is empty or cannot be parsed as a valid
// URL.
func NewHTTPServerAdapter(cfg config.ClientSync, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid sync endpoint: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpServerAdapter{
		client:   client,
		apiKey:   cfg.APIKey,
		compress: cfg.Compression,
		logger:   logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Authenticate implements [ServerAdapter]. It POSTs the installation API key
// to POST /api/auth/token. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken.
func (h *httpServerAdapter) Authenticate(ctx context.Context, clientID string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.TokenRequest{APIKey: h.apiKey, ClientID: clientID}).
		Post("/api/auth/token")
	if err != nil {
		return fmt.Errorf("%w: token request: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("%w: parse bearer token: %w", ErrProtocol, err)
	}

	h.SetToken(token)

	h.logger.Debug().
		Str("func", "httpServerAdapter.Authenticate").
		Msg("obtained bearer token")

	return nil
}

// Push implements [ServerAdapter].
func (h *httpServerAdapter) Push(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	return h.exchange(ctx, "/api/sync/push", req)
}

// Pull implements [ServerAdapter].
func (h *httpServerAdapter) Pull(ctx context.Context, req models.SyncRequest) (models.SyncResponse, error) {
	return h.exchange(ctx, "/api/sync/pull", req)
}

// exchange POSTs a sync request body to path and decodes the server's
// [models.SyncResponse]. A response with Success false is surfaced as
// [ErrProtocol] carrying the server-reported error text.
func (h *httpServerAdapter) exchange(ctx context.Context, path string, req models.SyncRequest) (models.SyncResponse, error) {
	body, headers, err := h.encodeBody(req)
	if err != nil {
		return models.SyncResponse{}, err
	}

	resp, err := h.authedRequest(ctx).
		SetHeaders(headers).
		SetBody(body).
		Post(path)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("%w: sync request: %w", ErrNetwork, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncResponse{}, err
	}

	var syncResp models.SyncResponse
	if err = json.Unmarshal(resp.Body(), &syncResp); err != nil {
		return models.SyncResponse{}, fmt.Errorf("%w: decode sync response: %w", ErrProtocol, err)
	}

	if !syncResp.Success {
		return models.SyncResponse{}, fmt.Errorf("%w: server rejected sync: %s", ErrProtocol, syncResp.Error)
	}

	return syncResp, nil
}

// encodeBody marshals the request and optionally gzip-compresses it,
// returning the body bytes together with the headers describing them.
func (h *httpServerAdapter) encodeBody(req models.SyncRequest) ([]byte, map[string]string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: encode sync request: %w", ErrProtocol, err)
	}

	headers := map[string]string{"Content-Type": "application/json"}

	if !h.compress {
		return payload, headers, nil
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err = gz.Write(payload); err != nil {
		return nil, nil, fmt.Errorf("%w: compress sync request: %w", ErrProtocol, err)
	}
	if err = gz.Close(); err != nil {
		return nil, nil, fmt.Errorf("%w: compress sync request: %w", ErrProtocol, err)
	}

	headers["Content-Encoding"] = "gzip"
	return buf.Bytes(), headers, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
