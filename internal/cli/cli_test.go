package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/pokedex/internal/config"
	"github.com/ignite/pokedex/internal/service/pokemon"
)

// run executes the root command against a SQLite file shared by every call
// in the test, so state survives between invocations.
func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	full := append([]string{
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
		"--storage", config.StorageSQLite,
		"--sqlite-path", dbPath,
	}, args...)
	cmd.SetArgs(full)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func newDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "pokedex.db")
}

func TestCreateFetchListDelete(t *testing.T) {
	db := newDB(t)

	out, err := run(t, db, "create", "--number", "25", "--name", "Pikachu", "--type", "Electric")
	require.NoError(t, err)
	var created pokemon.Response
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, pokemon.Response{Number: 25, Name: "Pikachu", Types: []string{"Electric"}}, created)

	_, err = run(t, db, "create", "-n", "6", "--name", "Charizard", "-t", "Fire,Flying")
	require.NoError(t, err)

	out, err = run(t, db, "fetch", "6")
	require.NoError(t, err)
	var fetched pokemon.Response
	require.NoError(t, json.Unmarshal([]byte(out), &fetched))
	assert.Equal(t, []string{"Fire", "Flying"}, fetched.Types)

	out, err = run(t, db, "list")
	require.NoError(t, err)
	var list []pokemon.Response
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 2)
	assert.Equal(t, 6, list[0].Number)
	assert.Equal(t, 25, list[1].Number)

	out, err = run(t, db, "delete", "25")
	require.NoError(t, err)
	assert.Equal(t, "deleted 25\n", out)

	_, err = run(t, db, "fetch", "25")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), string(pokemon.KindNotFound)), err.Error())
}

func TestListEmpty(t *testing.T) {
	out, err := run(t, newDB(t), "list")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestErrorsCarryKind(t *testing.T) {
	db := newDB(t)
	_, err := run(t, db, "create", "--number", "25", "--name", "Pikachu", "--type", "Electric")
	require.NoError(t, err)

	tests := []struct {
		name string
		args []string
		kind pokemon.Kind
	}{
		{"conflict", []string{"create", "--number", "25", "--name", "Raichu", "--type", "Electric"}, pokemon.KindConflict},
		{"invalid type", []string{"create", "--number", "26", "--name", "Raichu", "--type", "Thunder"}, pokemon.KindBadRequest},
		{"name not utf-8", []string{"create", "--number", "26", "--name", "Rai\xffchu", "--type", "Electric"}, pokemon.KindBadRequest},
		{"number out of range", []string{"fetch", "0"}, pokemon.KindBadRequest},
		{"not an integer", []string{"delete", "pikachu"}, pokemon.KindBadRequest},
		{"absent", []string{"delete", "150"}, pokemon.KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, db, tt.args...)
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), string(tt.kind)+":"), err.Error())
		})
	}
}

func TestCreateRequiresFlags(t *testing.T) {
	_, err := run(t, newDB(t), "create", "--number", "25")
	require.Error(t, err)
}

func TestMigrateStatus(t *testing.T) {
	out, err := run(t, newDB(t), "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "00001_create_pokemons.sql")
}

func TestMigrate_UnsupportedStorage(t *testing.T) {
	var out bytes.Buffer
	err := Migrate(context.Background(), config.StorageConfig{Type: config.StorageMemory}, false, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no schema migrations")
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeoutSeconds = 2
	cfg.CORS.AllowedOrigins = []string{"*"}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
