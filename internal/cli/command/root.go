package command

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/redrabbit/vaultrelay/internal/cli/connection"
	"github.com/redrabbit/vaultrelay/internal/cli/output"
	"github.com/redrabbit/vaultrelay/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "relay-cli",
		Usage:   "Command-line client for the vault relay",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			VaultCommand(),
			MessageCommand(),
			NukeCommand(),
			SystemCommand(),
		},
		Before: func(c *cli.Context) error {
			_, err := output.ParseFormat(c.String("output"))
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "relay server address (e.g., localhost:3000)",
			EnvVars: []string{"RELAY_SERVER"},
			Value:   "localhost:3000",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:    "admin-token",
			Usage:   "Bearer token for admin endpoints",
			EnvVars: []string{"RELAY_ADMIN_TOKEN"},
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request timeout",
			Value: connection.DefaultTimeout,
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server     string
	Output     output.Format
	AdminToken string
	Timeout    time.Duration
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		format = output.FormatTable
	}
	return &GlobalFlags{
		Server:     c.String("server"),
		Output:     format,
		AdminToken: c.String("admin-token"),
		Timeout:    c.Duration("timeout"),
	}
}

// EnsureConnected returns an HTTP client for the configured server.
func EnsureConnected(c *cli.Context) *connection.HTTPClient {
	flags := ParseGlobalFlags(c)
	return connection.NewHTTPClient(flags.Server, flags.AdminToken, flags.Timeout)
}

// requestContext derives a per-command context bounded by --timeout.
func requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, c.Duration("timeout"))
}

// render writes data to the app writer in the selected format.
func render(c *cli.Context, data any) error {
	flags := ParseGlobalFlags(c)
	return output.NewFormatter(flags.Output).Format(c.App.Writer, data)
}
