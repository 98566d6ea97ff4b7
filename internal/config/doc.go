// Package config loads, merges and validates the notesafe configuration.
//
// Values are collected from three sources — environment variables
// (caarlos0/env tags), command-line flags, and an optional JSON file — and
// merged with mergo so that earlier sources take precedence: env > flags >
// JSON. The merged [StructuredConfig] is then projected into role-specific
// views: [ClientConfig] for the local store daemon and [ServerConfig] for
// the sync server, each applying its own defaults and validation.
package config
