package command

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/redrabbit/vaultrelay/internal/cli/output"
)

// MessageCommand returns the message subcommand group.
func MessageCommand() *cli.Command {
	return &cli.Command{
		Name:    "message",
		Aliases: []string{"msg"},
		Usage:   "Post, fetch and acknowledge messages",
		Subcommands: []*cli.Command{
			{
				Name:      "post",
				Usage:     "Post an opaque blob to a vault",
				ArgsUsage: "<vaultId>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Message ID (a ULID when omitted)"},
					&cli.StringFlag{Name: "blob", Aliases: []string{"b"}, Usage: "Blob contents"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read the blob from a file (- for stdin)"},
				},
				Action: messagePost,
			},
			{
				Name:      "fetch",
				Usage:     "Fetch messages newer than a cursor",
				ArgsUsage: "<vaultId>",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "since", Usage: "Only messages after this Unix millisecond timestamp"},
				},
				Action: messageFetch,
			},
			{
				Name:      "ack",
				Usage:     "Acknowledge messages as a participant",
				ArgsUsage: "<vaultId> <messageId>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "Participant token", Required: true},
				},
				Action: messageAck,
			},
		},
	}
}

type postResult struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	VaultID   string `json:"vaultId"`
	Timestamp int64  `json:"timestamp"`
}

func (r *postResult) Table() *output.Table {
	t := &output.Table{Headers: []string{"ID", "VAULT", "TIMESTAMP"}}
	t.AddRow(r.ID, r.VaultID, formatMillis(r.Timestamp))
	return t
}

type message struct {
	ID        string `json:"id"`
	VaultID   string `json:"vaultId"`
	Blob      string `json:"blob"`
	Timestamp int64  `json:"timestamp"`
}

type fetchResult struct {
	Success          bool      `json:"success"`
	Data             []message `json:"data"`
	ParticipantCount int       `json:"participantCount"`
}

func (r *fetchResult) Table() *output.Table {
	t := &output.Table{Headers: []string{"ID", "TIMESTAMP", "SIZE"}}
	for _, m := range r.Data {
		t.AddRow(m.ID, formatMillis(m.Timestamp), fmt.Sprint(utf8.RuneCountInString(m.Blob)))
	}
	return t
}

type ackResult struct {
	Success    bool     `json:"success"`
	VaultID    string   `json:"vaultId"`
	MessageIDs []string `json:"messageIds"`
}

func (r *ackResult) Table() *output.Table {
	t := &output.Table{Headers: []string{"VAULT", "ACKNOWLEDGED"}}
	t.AddRow(r.VaultID, fmt.Sprint(len(r.MessageIDs)))
	return t
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// readBlob resolves the blob from --blob or --file. File contents lose a
// trailing newline.
func readBlob(c *cli.Context) (string, error) {
	blob, file := c.String("blob"), c.String("file")
	switch {
	case blob != "" && file != "":
		return "", fmt.Errorf("--blob and --file are mutually exclusive")
	case blob != "":
		return blob, nil
	case file == "":
		return "", fmt.Errorf("one of --blob or --file is required")
	}

	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read blob: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func messagePost(c *cli.Context) error {
	vaultID, err := vaultArg(c)
	if err != nil {
		return err
	}
	blob, err := readBlob(c)
	if err != nil {
		return err
	}

	id := c.String("id")
	if id == "" {
		id = ulid.Make().String()
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp postResult
	body := map[string]string{"id": id, "vaultId": vaultID, "blob": blob}
	if err := EnsureConnected(c).Call(ctx, "/api/message", body, &resp); err != nil {
		return err
	}

	resp.ID = id
	resp.VaultID = vaultID
	return render(c, &resp)
}

func messageFetch(c *cli.Context) error {
	vaultID, err := vaultArg(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp fetchResult
	body := map[string]any{"vaultId": vaultID, "since": c.Int64("since")}
	if err := EnsureConnected(c).Call(ctx, "/api/get_messages", body, &resp); err != nil {
		return err
	}

	return render(c, &resp)
}

func messageAck(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("vault ID and at least one message ID are required")
	}
	vaultID := c.Args().First()
	ids := c.Args().Tail()

	ctx, cancel := requestContext(c)
	defer cancel()

	var resp ackResult
	body := map[string]any{"vaultId": vaultID, "messageIds": ids, "userId": c.String("user")}
	if err := EnsureConnected(c).Call(ctx, "/api/ack_messages", body, &resp); err != nil {
		return err
	}

	resp.VaultID = vaultID
	resp.MessageIDs = ids
	return render(c, &resp)
}
