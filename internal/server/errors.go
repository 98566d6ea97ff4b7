// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

package server

import "errors"

var (
	// errNoListenAddress is returned by NewServer when the configuration
	// carries no HTTP listen address. Treated as a fatal misconfiguration.
	errNoListenAddress = errors.New("no http listen address configured")
)
