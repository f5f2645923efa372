package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/swarf/pkg/blackbook"
)

func init() {
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List the material table",
		Run:   runMaterials,
	}
	cmd.Flags().StringP("category", "c", "", "Only list one category (e.g. non-ferrous, plastic)")

	seed := &cobra.Command{
		Use:   "seed",
		Short: "Copy the built-in material table into the database",
		Run:   runSeed,
	}
	cmd.AddCommand(seed)

	RootCmd.AddCommand(cmd)
}

func runMaterials(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ms, err := s.Materials(cmd.Context(), category)
	if err != nil {
		exitErr("materials", err)
	}
	if len(ms) == 0 {
		// Nothing seeded yet: show the built-in table.
		book := blackbook.New()
		if category == "" {
			ms = book.All()
		} else {
			c, err := blackbook.ParseCategory(category)
			if err != nil {
				exitErr("category", err)
			}
			ms = book.ByCategory(c)
		}
	}

	if formatFlag == "json" {
		printJSON(ms)
		return
	}
	for _, m := range ms {
		sfm := m.SFMCarbide
		fmt.Printf("%-28s %-24s carbide SFM %4.0f-%4.0f  machinability %.2f\n",
			m.Name, m.Category, sfm.Min, sfm.Max, m.Machinability)
	}
}

func runSeed(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.SeedMaterials(cmd.Context(), blackbook.DefaultMaterials())
	if err != nil {
		exitErr("seed", err)
	}
	fmt.Printf("seeded %d materials into %s\n", n, getDBPath())
}
