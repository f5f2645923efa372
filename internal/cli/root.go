// Package cli implements the swarf command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chazu/swarf/pkg/blackbook"
	"github.com/chazu/swarf/pkg/store"
	"github.com/chazu/swarf/pkg/toollib"
)

var (
	dbPath     string
	toolsPath  string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "swarf",
	Short: "Compile machining programs to G-code",
	Long: "swarf compiles a small Lisp describing parts, tools and operations into\n" +
		"numbered G-code for Fanuc-style, Mach3/Mach4, LinuxCNC and Haas controllers.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $SWARF_DB or ~/.swarf/swarf.db)")
	RootCmd.PersistentFlags().StringVar(&toolsPath, "tools", "", "Tool library JSON (default: $SWARF_TOOLS)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
}

// explicitDBPath is the database named by flag or environment, or "".
func explicitDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return os.Getenv("SWARF_DB")
}

func getDBPath() string {
	if p := explicitDBPath(); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".swarf", "swarf.db")
}

func openStore() (*store.Store, error) {
	return store.Open(getDBPath())
}

// openExplicitStore opens the database only when one is configured by
// flag or environment. It returns nil, nil otherwise.
func openExplicitStore() (*store.Store, error) {
	p := explicitDBPath()
	if p == "" {
		return nil, nil
	}
	return store.Open(p)
}

func getToolsPath() string {
	if toolsPath != "" {
		return toolsPath
	}
	return os.Getenv("SWARF_TOOLS")
}

// loadTools returns the configured tool library, or nil when none is set.
func loadTools() (*toollib.Library, error) {
	p := getToolsPath()
	if p == "" {
		return nil, nil
	}
	return toollib.Load(p)
}

// loadBook returns the stored material table when one has been seeded,
// otherwise the built-in table.
func loadBook(ctx context.Context, s *store.Store) (*blackbook.Book, error) {
	if s == nil {
		return blackbook.New(), nil
	}
	b, err := s.Book(ctx)
	if errors.Is(err, store.ErrEmpty) {
		return blackbook.New(), nil
	}
	return b, err
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
