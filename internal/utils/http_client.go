// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package utils

import (
	"github.com/go-resty/resty/v2"
)

// HTTPClient embeds *resty.Client so the sync adapter gets the full resty
// surface (request builder, retry hooks, header plumbing) on a type this
// module owns and can extend.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an HTTPClient over a freshly configured resty
// client. Every call yields an independent client with its own connection
// pool; the adapter applies its base URL, timeout, and auth on top.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{Client: resty.New()}
}
