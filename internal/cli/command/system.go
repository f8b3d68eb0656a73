package command

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/redrabbit/vaultrelay/internal/cli/output"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Health and admin commands",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "stats",
				Usage:  "Show store statistics (admin)",
				Action: systemStats,
			},
			{
				Name:   "sweep",
				Usage:  "Run an expiry sweep now (admin)",
				Action: systemSweep,
			},
		},
	}
}

type healthResult struct {
	Status string `json:"status"`
	TS     int64  `json:"ts"`
}

type statsResult struct {
	Vaults        int   `json:"vaults"`
	PrivateVaults int   `json:"privateVaults"`
	PublicVaults  int   `json:"publicVaults"`
	Messages      int   `json:"messages"`
	Participants  int   `json:"totalParticipants"`
	Uptime        int64 `json:"uptime"`
}

type sweepResult struct {
	Success         bool `json:"success"`
	ExpiredMessages int  `json:"expired"`
	AckedMessages   int  `json:"acked"`
	RemovedVaults   int  `json:"removedVaults"`
}

func systemHealth(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var resp healthResult
	if err := EnsureConnected(c).Fetch(ctx, "/health", &resp); err != nil {
		return err
	}

	if ParseGlobalFlags(c).Output == output.FormatTable {
		return render(c, &struct {
			Status string `json:"status"`
			Time   string `json:"time"`
		}{resp.Status, time.UnixMilli(resp.TS).UTC().Format(time.RFC3339)})
	}
	return render(c, &resp)
}

func systemStats(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var resp statsResult
	if err := EnsureConnected(c).Fetch(ctx, "/admin/stats", &resp); err != nil {
		return err
	}
	return render(c, &resp)
}

func systemSweep(c *cli.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	var resp sweepResult
	if err := EnsureConnected(c).Call(ctx, "/admin/sweep", nil, &resp); err != nil {
		return err
	}
	return render(c, &resp)
}
