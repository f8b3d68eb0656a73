package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/redrabbit/vaultrelay/internal/cli/output"
)

// NukeCommand returns the nuke command.
func NukeCommand() *cli.Command {
	return &cli.Command{
		Name:      "nuke",
		Usage:     "Erase a participant from vaults, destroying private ones",
		ArgsUsage: "<vaultId>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Participant token", Required: true},
		},
		Action: nuke,
	}
}

type nukeResult struct {
	Success  bool     `json:"success"`
	VaultIDs []string `json:"vaultIds"`
}

func (r *nukeResult) Table() *output.Table {
	t := &output.Table{Headers: []string{"VAULT", "STATUS"}}
	for _, id := range r.VaultIDs {
		t.AddRow(id, "nuked")
	}
	return t
}

func nuke(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("at least one vault ID is required")
	}
	ids := c.Args().Slice()

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp nukeResult
	body := map[string]any{"vaultIds": ids, "userId": c.String("user")}
	if err := EnsureConnected(c).Call(ctx, "/api/nuke_user", body, &resp); err != nil {
		return err
	}

	resp.VaultIDs = ids
	return render(c, &resp)
}
