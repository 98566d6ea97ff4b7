// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Notesafe Authors

// Package client implements the headless client daemon runtime.
//
// It wires the encrypted local store, the client services, and the
// background synchronization job into a single process lifecycle.
package client
