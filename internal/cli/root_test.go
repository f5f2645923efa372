package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/store"
)

func resetFlags(t *testing.T) {
	t.Helper()
	dbPath, toolsPath = "", ""
	t.Cleanup(func() { dbPath, toolsPath = "", "" })
}

func TestDBPathPrecedence(t *testing.T) {
	resetFlags(t)
	t.Setenv("SWARF_DB", "")
	assert.Empty(t, explicitDBPath())
	def := getDBPath()
	assert.Equal(t, "swarf.db", filepath.Base(def))
	assert.Equal(t, ".swarf", filepath.Base(filepath.Dir(def)))

	t.Setenv("SWARF_DB", "/tmp/env.db")
	assert.Equal(t, "/tmp/env.db", getDBPath())

	dbPath = "/tmp/flag.db"
	assert.Equal(t, "/tmp/flag.db", getDBPath())
}

func TestOpenExplicitStoreWithoutPath(t *testing.T) {
	resetFlags(t)
	t.Setenv("SWARF_DB", "")
	s, err := openExplicitStore()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestLoadBookFallsBackToDefault(t *testing.T) {
	ctx := context.Background()

	b, err := loadBook(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, b.All(), len(blackbook.DefaultMaterials()))

	s, err := store.Open(filepath.Join(t.TempDir(), "swarf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	b, err = loadBook(ctx, s)
	require.NoError(t, err, "empty store should fall back")
	assert.Len(t, b.All(), len(blackbook.DefaultMaterials()))

	custom := &blackbook.Material{Name: "Shop Delrin", Category: blackbook.Plastic, Machinability: 1}
	require.NoError(t, s.PutMaterial(ctx, custom))
	b, err = loadBook(ctx, s)
	require.NoError(t, err)
	assert.Len(t, b.All(), 1)
	_, err = b.Lookup("Shop Delrin")
	assert.NoError(t, err)
}

func TestLoadTools(t *testing.T) {
	resetFlags(t)
	t.Setenv("SWARF_TOOLS", "")

	lib, err := loadTools()
	require.NoError(t, err)
	assert.Nil(t, lib)

	path := filepath.Join(t.TempDir(), "tools.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"3": {"id": 3, "name": "drill", "dia": 0.201, "flutes": 2, "material": "hss"}}`), 0o644))
	t.Setenv("SWARF_TOOLS", path)

	lib, err = loadTools()
	require.NoError(t, err)
	tool, err := lib.Get("3")
	require.NoError(t, err)
	assert.Equal(t, "drill", tool.Name)
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"compile", "posts", "materials", "feeds", "tools", "history"}
	for _, name := range want {
		cmd, _, err := RootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}
