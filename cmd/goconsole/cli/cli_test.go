package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrEthical07/goConsole/internal/mockapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	baseURL string
	dbPath  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	srv, err := mockapi.New(mockapi.Config{Secret: []byte("0123456789abcdef0123456789abcdef")})
	require.NoError(t, err)
	_, err = srv.AddUser("Ada", "ada@example.com", "Secret#123", "admin")
	require.NoError(t, err)
	_, err = srv.AddUser("Root", "root@example.com", "Secret#123", "super-admin")
	require.NoError(t, err)
	_, err = srv.AddUser("Eve", "eve@example.com", "Secret#123", "editor")
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &harness{
		baseURL: ts.URL,
		dbPath:  filepath.Join(t.TempDir(), "console.db"),
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := RootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--base-url", h.baseURL, "--db-path", h.dbPath, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginStatusLogout(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "State: unauthenticated")
	assert.Contains(t, out, "  - Login")

	out, err = h.run(t, "login", "--email", "ada@example.com", "--password", "Secret#123")
	require.NoError(t, err)
	assert.Contains(t, out, "Admin login successfully!")
	assert.Contains(t, out, "Start: Dashboard")
	assert.Contains(t, out, "  - Bookings")
	assert.NotContains(t, out, "  - Admins")

	out, err = h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "State: authenticated_admin")
	assert.Contains(t, out, "User: Ada <ada@example.com> (admin)")

	out, err = h.run(t, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out.")

	out, err = h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "State: unauthenticated")
}

func TestLoginWrongPasswordShowsBackendMessage(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "login", "--email", "ada@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, out, "Invalid credentials")

	out, err = h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "State: unauthenticated")
}

func TestLoginUnknownRoleIsRejected(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "login", "--email", "eve@example.com", "--password", "Secret#123")
	require.Error(t, err)
	assert.Contains(t, out, "not permitted")

	out, err = h.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "State: unauthenticated")
}

func TestLoginTwiceAsksForLogout(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "login", "--email", "ada@example.com", "--password", "Secret#123")
	require.NoError(t, err)

	out, err := h.run(t, "login", "--email", "root@example.com", "--password", "Secret#123")
	require.Error(t, err)
	assert.Contains(t, out, "Already signed in as ada@example.com")
}

func TestRoutesAndOpenFollowRole(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "login", "--email", "root@example.com", "--password", "Secret#123")
	require.NoError(t, err)

	out, err := h.run(t, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Admins")
	assert.Contains(t, out, "[x] Reviews")
	assert.Contains(t, out, "[ ] Bookings")

	out, err = h.run(t, "open", "Admins")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened Admins")

	out, err = h.run(t, "open", "Bookings")
	require.Error(t, err)
	assert.Contains(t, out, "Access denied: Bookings")

	out, err = h.run(t, "open", "Bookings", "--policy", "extended")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened Bookings")
}

func TestOpenWhileSignedOut(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "open", "Login")
	require.NoError(t, err)
	assert.Contains(t, out, "Opened Login")

	_, err = h.run(t, "open", "Dashboard")
	require.Error(t, err)

	_, err = h.run(t, "open", "Nowhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown route")
}

func TestLintReportsMemoryStorage(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "lint")
	require.NoError(t, err)
	assert.Contains(t, out, "No warnings.")

	out, err = h.run(t, "lint", "--storage", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "storage_memory")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	h := newHarness(t)
	t.Setenv("GOCONSOLE_POLICY", "extended")

	out, err := h.run(t, "lint")
	require.NoError(t, err)
	assert.Contains(t, out, "policy_extended")
}

func TestConfigFileProfiles(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(t.TempDir(), "goconsole.yaml")
	content := []byte(`policy: custom
profiles:
  admin: [Dashboard, Users]
  super-admin: [Dashboard, Admins]
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	_, err := h.run(t, "login", "--email", "ada@example.com", "--password", "Secret#123", "--config", path)
	require.NoError(t, err)

	out, err := h.run(t, "routes", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "[x] Users")
	assert.Contains(t, out, "[ ] Bookings")

	out, err = h.run(t, "lint", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "policy_custom")
}

func TestInvalidConfigFails(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "status", "--storage", "floppy")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestReportShowsPolicyProfiles(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "report", "--policy", "extended")
	require.NoError(t, err)
	assert.Contains(t, out, "Storage: bolt (durable=true)")
	assert.Contains(t, out, "Policy: extended (custom=false)")
	assert.Contains(t, out, "  super-admin: Dashboard, Users, Bookings, Restaurants, Admins, Reviews, Settings")
	assert.NotContains(t, out, "High warnings")
}
