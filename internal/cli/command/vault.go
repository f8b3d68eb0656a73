package command

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/redrabbit/vaultrelay/internal/cli/output"
)

// VaultCommand returns the vault subcommand group.
func VaultCommand() *cli.Command {
	privateFlag := &cli.BoolFlag{
		Name:  "private",
		Usage: "Create the vault as private (two participants)",
	}

	return &cli.Command{
		Name:  "vault",
		Usage: "Vault lifecycle",
		Subcommands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Create a vault if it does not exist",
				ArgsUsage: "<vaultId>",
				Flags:     []cli.Flag{privateFlag},
				Action:    vaultCreate,
			},
			{
				Name:      "join",
				Usage:     "Join a vault, creating it on first use",
				ArgsUsage: "<vaultId>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Participant token (generated when omitted)",
					},
					privateFlag,
				},
				Action: vaultJoin,
			},
			{
				Name:      "leave",
				Usage:     "Leave a vault",
				ArgsUsage: "<vaultId>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Participant token"},
				},
				Action: vaultLeave,
			},
			{
				Name:      "count",
				Usage:     "Show the participant count of a vault",
				ArgsUsage: "<vaultId>",
				Action:    vaultCount,
			},
		},
	}
}

type vaultResult struct {
	Success          bool   `json:"success"`
	VaultID          string `json:"vaultId"`
	VaultType        string `json:"vaultType,omitempty"`
	UserID           string `json:"userId,omitempty"`
	ParticipantCount int    `json:"participantCount"`
}

func (r *vaultResult) Table() *output.Table {
	t := &output.Table{Headers: []string{"VAULT", "TYPE", "PARTICIPANTS", "USER"}}
	vt, user := r.VaultType, r.UserID
	if vt == "" {
		vt = "-"
	}
	if user == "" {
		user = "-"
	}
	t.AddRow(r.VaultID, vt, fmt.Sprint(r.ParticipantCount), user)
	return t
}

func vaultTypeFlag(c *cli.Context) string {
	if c.Bool("private") {
		return "private"
	}
	return "public"
}

func vaultArg(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", fmt.Errorf("vault ID is required")
	}
	return c.Args().First(), nil
}

func vaultCreate(c *cli.Context) error {
	vaultID, err := vaultArg(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp struct {
		Success bool `json:"success"`
	}
	vaultType := vaultTypeFlag(c)
	body := map[string]string{"vaultId": vaultID, "vaultType": vaultType}
	if err := EnsureConnected(c).Call(ctx, "/api/vault_create", body, &resp); err != nil {
		return err
	}

	return render(c, &vaultResult{Success: resp.Success, VaultID: vaultID, VaultType: vaultType})
}

func vaultJoin(c *cli.Context) error {
	vaultID, err := vaultArg(c)
	if err != nil {
		return err
	}

	userID := c.String("user")
	if userID == "" {
		userID = uuid.NewString()
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp vaultResult
	body := map[string]string{"vaultId": vaultID, "userId": userID, "vaultType": vaultTypeFlag(c)}
	if err := EnsureConnected(c).Call(ctx, "/api/vault_join", body, &resp); err != nil {
		return err
	}

	resp.VaultID = vaultID
	resp.UserID = userID
	return render(c, &resp)
}

func vaultLeave(c *cli.Context) error {
	vaultID, err := vaultArg(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp vaultResult
	body := map[string]string{"vaultId": vaultID, "userId": c.String("user")}
	if err := EnsureConnected(c).Call(ctx, "/api/vault_leave", body, &resp); err != nil {
		return err
	}

	resp.VaultID = vaultID
	return render(c, &resp)
}

func vaultCount(c *cli.Context) error {
	vaultID, err := vaultArg(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp vaultResult
	body := map[string]string{"vaultId": vaultID}
	if err := EnsureConnected(c).Call(ctx, "/api/get_participant_count", body, &resp); err != nil {
		return err
	}

	resp.VaultID = vaultID
	return render(c, &resp)
}
