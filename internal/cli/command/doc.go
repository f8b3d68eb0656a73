// Package command defines the relay-cli command tree on urfave/cli/v2.
//
// Each command parses its flags, calls the relay over connection.HTTPClient
// and hands the decoded reply to an output.Formatter chosen by --output.
package command
