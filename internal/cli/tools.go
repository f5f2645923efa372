package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/swarf/pkg/toollib"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "tools [id-or-name]",
		Short: "List the tool library, or show one tool",
		Args:  cobra.MaximumNArgs(1),
		Run:   runTools,
	})
}

func runTools(cmd *cobra.Command, args []string) {
	lib, err := loadTools()
	if err != nil {
		exitErr("load tools", err)
	}
	if lib == nil {
		exitErr("tools", errors.New("no tool library: pass --tools or set SWARF_TOOLS"))
	}

	tools := lib.List()
	if len(args) == 1 {
		t, err := lib.Get(args[0])
		if err != nil {
			exitErr("tools", err)
		}
		tools = []*toollib.Tool{t}
	}

	if formatFlag == "json" {
		printJSON(tools)
		return
	}
	for _, t := range tools {
		fmt.Printf("T%-3d %-32s %7.4f\" %d-flute %s\n", t.ID, t.Name, t.Dia, t.Flutes, t.Material)
	}
}
