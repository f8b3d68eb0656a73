// Package main provides the entry point for relay-server.
//
// relay-server is a content-blind message relay. Clients exchange opaque,
// client-encrypted blobs through short-lived vaults held only in memory;
// nothing is written to disk.
//
// Usage:
//
//	relay-server [-config relay.yaml] [-env-file .env]
//
// Configuration comes from defaults, then the YAML file, then .env, then
// RELAY_* environment variables. Changing log.level in the file takes
// effect without a restart.
package main
