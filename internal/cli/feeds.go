package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/swarf/pkg/blackbook"
)

func init() {
	cmd := &cobra.Command{
		Use:   "feeds",
		Short: "Look up speeds and feeds for a material and tool",
		Run:   runFeeds,
	}

	cmd.Flags().StringP("material", "m", "", "Workpiece material (name or grade, e.g. 6061-T6)")
	cmd.Flags().Float64("dia", 0.25, "Tool diameter, inches")
	cmd.Flags().Int("flutes", 2, "Flute count")
	cmd.Flags().String("tool-material", "carbide", "Tool material: hss, cobalt, carbide, coated, ...")
	cmd.Flags().Float64("engagement", 50, "Radial engagement, percent of diameter")
	cmd.Flags().Float64("doc", 0, "Axial depth of cut (default: one diameter)")
	cmd.Flags().Float64("woc", 0, "Radial width of cut (default: from --engagement)")
	cmd.Flags().String("preset", "", "Use a strategy instead: roughing, finishing or adaptive")
	cmd.MarkFlagRequired("material")

	RootCmd.AddCommand(cmd)
}

type feedsOutput struct {
	Material string                      `json:"material"`
	Preset   string                      `json:"preset,omitempty"`
	RPM      uint                        `json:"rpm"`
	Feed     float64                     `json:"feed_ipm"`
	ChipLoad float64                     `json:"chip_load,omitempty"`
	SFM      float64                     `json:"sfm,omitempty"`
	DOC      float64                     `json:"doc"`
	WOC      float64                     `json:"woc"`
	HP       float64                     `json:"hp,omitempty"`
	MRR      float64                     `json:"mrr,omitempty"`
	ToolLife *blackbook.ToolLifeEstimate `json:"tool_life,omitempty"`
	Notes    []string                    `json:"notes,omitempty"`
}

func runFeeds(cmd *cobra.Command, args []string) {
	material, _ := cmd.Flags().GetString("material")
	dia, _ := cmd.Flags().GetFloat64("dia")
	flutes, _ := cmd.Flags().GetInt("flutes")
	tmName, _ := cmd.Flags().GetString("tool-material")
	pct, _ := cmd.Flags().GetFloat64("engagement")
	doc, _ := cmd.Flags().GetFloat64("doc")
	woc, _ := cmd.Flags().GetFloat64("woc")
	presetName, _ := cmd.Flags().GetString("preset")

	tm, err := blackbook.ParseToolMaterial(tmName)
	if err != nil {
		exitErr("tool material", err)
	}
	tool := blackbook.ToolGeometry{Diameter: dia, Flutes: flutes, Material: tm}

	s, err := openExplicitStore()
	if err != nil {
		exitErr("open store", err)
	}
	if s != nil {
		defer s.Close()
	}
	book, err := loadBook(cmd.Context(), s)
	if err != nil {
		exitErr("load materials", err)
	}
	m, err := book.Lookup(material)
	if err != nil {
		exitErr("material", err)
	}

	out := feedsOutput{Material: m.Name}
	if presetName != "" {
		kind, err := blackbook.ParsePresetKind(presetName)
		if err != nil {
			exitErr("preset", err)
		}
		r, err := book.Preset(m.Name, tool, kind)
		if err != nil {
			exitErr("preset", err)
		}
		out.RPM, out.Feed, out.DOC, out.WOC = r.RPM, r.Feed, r.DOC, r.WOC
		out.Preset = r.Description
	} else {
		if doc <= 0 {
			doc = dia
		}
		if woc <= 0 {
			woc = dia * pct / 100
		}
		p, err := book.Resolve(m.Name, tool, blackbook.Engagement{AxialDOC: doc, RadialWOC: woc, RadialPct: pct})
		if err != nil {
			exitErr("resolve", err)
		}
		life := blackbook.EstimateToolLife(m, p.SFM, p.ChipLoad, tm)
		out = feedsOutput{
			Material: m.Name, RPM: p.RPM, Feed: p.Feed, ChipLoad: p.ChipLoad, SFM: p.SFM,
			DOC: p.DOC, WOC: p.WOC, HP: p.HP, MRR: p.MRR, ToolLife: &life, Notes: p.Warnings,
		}
		for _, issue := range blackbook.ValidateParameters(p, m, tool) {
			out.Notes = append(out.Notes, issue.String())
		}
	}

	if formatFlag == "json" {
		printJSON(out)
		return
	}
	fmt.Printf("%s, %g\" %d-flute %s\n", out.Material, dia, flutes, tm)
	if out.Preset != "" {
		fmt.Printf("  %s\n", out.Preset)
	}
	fmt.Printf("  RPM       %d\n", out.RPM)
	fmt.Printf("  Feed      %.1f IPM\n", out.Feed)
	if out.ChipLoad > 0 {
		fmt.Printf("  Chip load %.4f in/tooth\n", out.ChipLoad)
		fmt.Printf("  SFM       %.0f\n", out.SFM)
	}
	fmt.Printf("  DOC       %.4f\n", out.DOC)
	fmt.Printf("  WOC       %.4f\n", out.WOC)
	if out.HP > 0 {
		fmt.Printf("  HP        %.2f\n", out.HP)
		fmt.Printf("  MRR       %.3f in^3/min\n", out.MRR)
	}
	if out.ToolLife != nil {
		fmt.Printf("  Tool life ~%.0f min\n", out.ToolLife.Minutes)
	}
	for _, n := range out.Notes {
		fmt.Printf("  note: %s\n", n)
	}
}
