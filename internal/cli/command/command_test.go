package command

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redrabbit/vaultrelay/internal/cli/connection"
)

func TestApp(t *testing.T) {
	app := App()
	if app.Name != "relay-cli" {
		t.Errorf("Name = %q", app.Name)
	}

	want := map[string]bool{"vault": false, "message": false, "nuke": false, "system": false}
	for _, cmd := range app.Commands {
		want[cmd.Name] = true
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing command %q", name)
		}
	}
}

func TestApp_InvalidOutput(t *testing.T) {
	m := newMockRelay(t)
	_, err := run(t, m, "", "-o", "xml", "system", "health")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("expected output format error, got %v", err)
	}
}

func TestVaultCreate(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/vault_create", reply(http.StatusOK, map[string]any{"success": true}))

	out, err := run(t, m, "", "vault", "create", "--private", "vault-0001")
	if err != nil {
		t.Fatalf("vault create: %v", err)
	}

	req := m.last(t)
	if req.Method != http.MethodPost {
		t.Errorf("method = %s", req.Method)
	}
	if req.Body["vaultId"] != "vault-0001" || req.Body["vaultType"] != "private" {
		t.Errorf("unexpected body: %v", req.Body)
	}
	if !strings.Contains(out, "vault-0001") || !strings.Contains(out, "private") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestVaultCreate_MissingArg(t *testing.T) {
	m := newMockRelay(t)
	if _, err := run(t, m, "", "vault", "create"); err == nil {
		t.Error("expected error without vault ID")
	}
}

func TestVaultJoin_GeneratesUser(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/vault_join", reply(http.StatusOK, map[string]any{
		"success": true, "participantCount": 1, "vaultType": "public",
	}))

	out, err := run(t, m, "", "-o", "json", "vault", "join", "vault-0001")
	if err != nil {
		t.Fatalf("vault join: %v", err)
	}

	userID, _ := m.last(t).Body["userId"].(string)
	if len(userID) != 36 {
		t.Errorf("expected generated UUID user, got %q", userID)
	}
	if m.last(t).Body["vaultType"] != "public" {
		t.Errorf("vaultType = %v", m.last(t).Body["vaultType"])
	}

	var got vaultResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.UserID != userID || got.ParticipantCount != 1 || got.VaultID != "vault-0001" {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestVaultJoin_PrivateFull(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/vault_join", func(w http.ResponseWriter, r *http.Request) {
		errorResponse(w, http.StatusForbidden, "VR-VAULT-4030", "Private vault is full")
	})

	_, err := run(t, m, "", "vault", "join", "--user", "user-token-000001", "vault-0001")

	var apiErr *connection.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Code != "VR-VAULT-4030" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
	if m.last(t).Body["userId"] != "user-token-000001" {
		t.Errorf("userId = %v", m.last(t).Body["userId"])
	}
}

func TestVaultLeaveAndCount(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/vault_leave", reply(http.StatusOK, map[string]any{"success": true}))
	m.handle("/api/get_participant_count", reply(http.StatusOK, map[string]any{"success": true, "participantCount": 2}))

	if _, err := run(t, m, "", "vault", "leave", "--user", "user-token-000001", "vault-0001"); err != nil {
		t.Fatalf("vault leave: %v", err)
	}
	if m.last(t).Path != "/api/vault_leave" {
		t.Errorf("path = %s", m.last(t).Path)
	}

	out, err := run(t, m, "", "vault", "count", "vault-0001")
	if err != nil {
		t.Fatalf("vault count: %v", err)
	}
	if !strings.Contains(out, "PARTICIPANTS") || !strings.Contains(out, "2") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMessagePost_Blob(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/message", reply(http.StatusOK, map[string]any{"success": true, "timestamp": 1700000000000}))

	out, err := run(t, m, "", "message", "post", "--id", "msg-00000001", "--blob", "c2VjcmV0", "vault-0001")
	if err != nil {
		t.Fatalf("message post: %v", err)
	}

	body := m.last(t).Body
	if body["id"] != "msg-00000001" || body["blob"] != "c2VjcmV0" || body["vaultId"] != "vault-0001" {
		t.Errorf("unexpected body: %v", body)
	}
	if !strings.Contains(out, "2023-11-14T22:13:20.000Z") {
		t.Errorf("expected formatted timestamp:\n%s", out)
	}
}

func TestMessagePost_GeneratesID(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/message", reply(http.StatusOK, map[string]any{"success": true, "timestamp": 1}))

	if _, err := run(t, m, "", "message", "post", "--blob", "x", "vault-0001"); err != nil {
		t.Fatalf("message post: %v", err)
	}
	if id, _ := m.last(t).Body["id"].(string); len(id) != 26 {
		t.Errorf("expected ULID message id, got %q", id)
	}
}

func TestMessagePost_File(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/message", reply(http.StatusOK, map[string]any{"success": true, "timestamp": 1}))

	path := filepath.Join(t.TempDir(), "blob.txt")
	if err := os.WriteFile(path, []byte("ciphertext\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, m, "", "message", "post", "--file", path, "vault-0001"); err != nil {
		t.Fatalf("message post: %v", err)
	}
	if got := m.last(t).Body["blob"]; got != "ciphertext" {
		t.Errorf("blob = %q, want trailing newline trimmed", got)
	}
}

func TestMessagePost_Stdin(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/message", reply(http.StatusOK, map[string]any{"success": true, "timestamp": 1}))

	if _, err := run(t, m, "from-stdin\n", "message", "post", "--file", "-", "vault-0001"); err != nil {
		t.Fatalf("message post: %v", err)
	}
	if got := m.last(t).Body["blob"]; got != "from-stdin" {
		t.Errorf("blob = %q", got)
	}
}

func TestMessagePost_BlobFlags(t *testing.T) {
	m := newMockRelay(t)

	if _, err := run(t, m, "", "message", "post", "vault-0001"); err == nil {
		t.Error("expected error without blob")
	}
	if _, err := run(t, m, "", "message", "post", "--blob", "a", "--file", "b", "vault-0001"); err == nil {
		t.Error("expected error with both --blob and --file")
	}
}

func TestMessageFetch(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/get_messages", reply(http.StatusOK, map[string]any{
		"success": true,
		"data": []map[string]any{
			{"id": "msg-00000001", "vaultId": "vault-0001", "blob": "abcd", "timestamp": 1700000000000},
			{"id": "msg-00000002", "vaultId": "vault-0001", "blob": "ef", "timestamp": 1700000000001},
		},
		"participantCount": 2,
	}))

	out, err := run(t, m, "", "message", "fetch", "--since", "42", "vault-0001")
	if err != nil {
		t.Fatalf("message fetch: %v", err)
	}
	if since, _ := m.last(t).Body["since"].(float64); since != 42 {
		t.Errorf("since = %v", m.last(t).Body["since"])
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "msg-00000001") || !strings.Contains(lines[1], "4") {
		t.Errorf("unexpected row: %q", lines[1])
	}
}

func TestMessageFetch_YAML(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/get_messages", reply(http.StatusOK, map[string]any{
		"success": true, "data": []any{}, "participantCount": 0,
	}))

	out, err := run(t, m, "", "-o", "yaml", "message", "fetch", "vault-0001")
	if err != nil {
		t.Fatalf("message fetch: %v", err)
	}
	if !strings.Contains(out, "success: true") || !strings.Contains(out, "data: []") {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}

func TestMessageAck(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/ack_messages", reply(http.StatusOK, map[string]any{"success": true}))

	out, err := run(t, m, "", "message", "ack", "--user", "user-token-000001", "vault-0001", "msg-00000001", "msg-00000002")
	if err != nil {
		t.Fatalf("message ack: %v", err)
	}

	body := m.last(t).Body
	ids, _ := body["messageIds"].([]any)
	if len(ids) != 2 || body["userId"] != "user-token-000001" {
		t.Errorf("unexpected body: %v", body)
	}
	if !strings.Contains(out, "ACKNOWLEDGED") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestMessageAck_RequiresUser(t *testing.T) {
	m := newMockRelay(t)
	if _, err := run(t, m, "", "message", "ack", "vault-0001", "msg-00000001"); err == nil {
		t.Error("expected error without --user")
	}
}

func TestNuke(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/api/nuke_user", reply(http.StatusOK, map[string]any{"success": true}))

	out, err := run(t, m, "", "nuke", "--user", "user-token-000001", "vault-0001", "vault-0002")
	if err != nil {
		t.Fatalf("nuke: %v", err)
	}

	ids, _ := m.last(t).Body["vaultIds"].([]any)
	if len(ids) != 2 {
		t.Errorf("vaultIds = %v", m.last(t).Body["vaultIds"])
	}
	if strings.Count(out, "nuked") != 2 {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSystemHealth(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/health", reply(http.StatusOK, map[string]any{"status": "ok", "ts": 1700000000000}))

	out, err := run(t, m, "", "system", "health")
	if err != nil {
		t.Fatalf("system health: %v", err)
	}
	if m.last(t).Method != http.MethodGet {
		t.Errorf("method = %s", m.last(t).Method)
	}
	if !strings.Contains(out, "ok") || !strings.Contains(out, "2023-11-14T22:13:20Z") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSystemStats_AdminToken(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer s3cret" {
			errorResponse(w, http.StatusUnauthorized, "VR-SYS-4010", "Unauthorized")
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{
			"vaults": 3, "privateVaults": 1, "publicVaults": 2, "messages": 5, "totalParticipants": 4, "uptime": 60,
		})
	})

	if _, err := run(t, m, "", "system", "stats"); err == nil {
		t.Error("expected unauthorized without token")
	}

	out, err := run(t, m, "", "--admin-token", "s3cret", "system", "stats")
	if err != nil {
		t.Fatalf("system stats: %v", err)
	}
	if !strings.Contains(out, "totalParticipants") || !strings.Contains(out, "4") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSystemSweep(t *testing.T) {
	m := newMockRelay(t)
	m.handle("/admin/sweep", reply(http.StatusOK, map[string]any{
		"success": true, "expired": 2, "acked": 1, "removedVaults": 1,
	}))

	out, err := run(t, m, "", "-o", "json", "system", "sweep")
	if err != nil {
		t.Fatalf("system sweep: %v", err)
	}
	if m.last(t).Method != http.MethodPost {
		t.Errorf("method = %s", m.last(t).Method)
	}

	var got sweepResult
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ExpiredMessages != 2 || got.AckedMessages != 1 || got.RemovedVaults != 1 {
		t.Errorf("unexpected result: %+v", got)
	}
}
