// Package main provides the entry point for relay-cli.
//
// Usage:
//
//	relay-cli [-s host:port] [-o table|json|yaml] <command>
//	relay-cli vault join --private my-vault-id
//	relay-cli message post --file ciphertext.b64 my-vault-id
//	relay-cli --admin-token $TOKEN system stats
package main
