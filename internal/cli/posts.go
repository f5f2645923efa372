package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/swarf/pkg/post"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "posts",
		Short: "List controller dialects",
		Run:   runPosts,
	})
}

type postInfo struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	CannedCycles bool   `json:"canned_cycles"`
	Subroutines  bool   `json:"subroutines"`
}

func runPosts(cmd *cobra.Command, args []string) {
	var infos []postInfo
	for _, k := range post.Kinds() {
		p := post.New(k, post.Options{})
		infos = append(infos, postInfo{
			Key:          k.String(),
			Name:         p.Name(),
			CannedCycles: p.SupportsCannedCycles(),
			Subroutines:  p.SupportsSubroutines(),
		})
	}
	if formatFlag == "json" {
		printJSON(infos)
		return
	}
	for _, i := range infos {
		fmt.Printf("%-10s %-15s canned cycles: %-5s subroutines: %s\n",
			i.Key, i.Name, yesNo(i.CannedCycles), yesNo(i.Subroutines))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
