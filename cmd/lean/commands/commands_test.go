package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ElMonstro/Lean/internal/application/portfolio"
	"github.com/ElMonstro/Lean/internal/application/usecase/framework"
	sqliterepo "github.com/ElMonstro/Lean/internal/infrastructure/storage/sqlite"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestModelsCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"models"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, strings.Split(strings.TrimSpace(out.String()), "\n"), "null")
}

func TestRunMissingConfig(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"run", "--config", filepath.Join(t.TempDir(), "missing.toml")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRunUnknownModel(t *testing.T) {
	path := writeConfig(t, "[portfolio]\nmodel = \"equal-weighting\"\n")
	err := run(context.Background(), &rootOptions{configPath: path})
	require.ErrorIs(t, err, portfolio.ErrUnknownModel)
}

func TestRunWithoutFeeds(t *testing.T) {
	path := writeConfig(t, "[feed]\nenabled = false\n")
	err := run(context.Background(), &rootOptions{configPath: path})
	require.ErrorIs(t, err, framework.ErrNoFeeds)
}

func TestRunRecordsEmptyTargets(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		frame := `{"type":"insights","ts":1704209400000,"insights":[{"id":"1","symbol":"SPY","direction":1},{"id":"2","symbol":"QQQ","direction":-1}]}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	dbPath := filepath.Join(t.TempDir(), "lean.db")
	path := writeConfig(t, fmt.Sprintf(`
[app]
name = "e2e"
log_level = "warn"

[feed]
enabled = true
ws_url = %q

[storage.sqlite]
enabled = true
path = %q
`, "ws"+strings.TrimPrefix(srv.URL, "http"), dbPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- run(ctx, &rootOptions{configPath: path}) }()

	require.Eventually(t, func() bool {
		repo, err := sqliterepo.New(dbPath)
		if err != nil {
			return false
		}
		defer repo.Close()
		n, err := repo.CountTargetBatches(context.Background(), "e2e")
		return err == nil && n == 1
	}, 10*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	repo, err := sqliterepo.New(dbPath)
	require.NoError(t, err)
	defer repo.Close()

	batch, err := repo.LatestTargetBatch(context.Background(), "e2e")
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, "null", batch.Model)
	assert.Equal(t, 2, batch.InsightCount)
	assert.Empty(t, batch.Targets)

	n, err := repo.CountInsights(context.Background(), "e2e")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
