// Package blackbook is the machining reference: a table of workpiece
// materials with surface speeds and chip loads, and the calculations that
// turn a material, a tool and an engagement into spindle speed and feed.
package blackbook

import (
	"fmt"
	"strings"
)

// MaterialCategory groups materials that machine alike.
type MaterialCategory int

const (
	NonFerrous MaterialCategory = iota
	SteelLowAlloy
	SteelHighAlloy
	StainlessAustenitic
	StainlessMartensitic
	StainlessPrecipitation
	CastIron
	Titanium
	HighTempAlloy
	Plastic
	Composite
)

var categoryNames = []string{
	NonFerrous:             "non-ferrous",
	SteelLowAlloy:          "steel-low-alloy",
	SteelHighAlloy:         "steel-high-alloy",
	StainlessAustenitic:    "stainless-austenitic",
	StainlessMartensitic:   "stainless-martensitic",
	StainlessPrecipitation: "stainless-precipitation",
	CastIron:               "cast-iron",
	Titanium:               "titanium",
	HighTempAlloy:          "high-temp-alloy",
	Plastic:                "plastic",
	Composite:              "composite",
}

func (c MaterialCategory) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("MaterialCategory(%d)", int(c))
}

// ParseCategory accepts the names produced by String.
func ParseCategory(s string) (MaterialCategory, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range categoryNames {
		if n == s {
			return MaterialCategory(i), nil
		}
	}
	return 0, fmt.Errorf("unknown material category %q", s)
}

func (c MaterialCategory) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *MaterialCategory) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ToolMaterial is the cutting tool substrate.
type ToolMaterial int

const (
	HSS ToolMaterial = iota
	Cobalt
	Carbide
	CoatedCarbide
	Ceramic
	CBN
	Diamond
)

func (t ToolMaterial) String() string {
	switch t {
	case HSS:
		return "HSS"
	case Cobalt:
		return "Cobalt"
	case Carbide:
		return "Carbide"
	case CoatedCarbide:
		return "Coated Carbide"
	case Ceramic:
		return "Ceramic"
	case CBN:
		return "CBN"
	case Diamond:
		return "Diamond"
	default:
		return fmt.Sprintf("ToolMaterial(%d)", int(t))
	}
}

// ParseToolMaterial accepts the lower-case names used in tool libraries
// ("hss", "cobalt", "carbide", "coated", "ceramic", "cbn", "diamond") as
// well as the display names produced by String.
func ParseToolMaterial(s string) (ToolMaterial, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hss":
		return HSS, nil
	case "cobalt", "hss-co":
		return Cobalt, nil
	case "carbide":
		return Carbide, nil
	case "coated", "coated carbide", "coated-carbide", "coated_carbide":
		return CoatedCarbide, nil
	case "ceramic":
		return Ceramic, nil
	case "cbn":
		return CBN, nil
	case "diamond", "pcd":
		return Diamond, nil
	}
	return 0, fmt.Errorf("unknown tool material %q", s)
}

func (t ToolMaterial) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(strings.ReplaceAll(t.String(), " ", "-"))), nil
}

func (t *ToolMaterial) UnmarshalText(b []byte) error {
	v, err := ParseToolMaterial(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// SFMRange is a surface speed range in surface feet per minute.
type SFMRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Recommended float64 `json:"recommended"`
}

// ToolDiameters are the standard diameters (inches) the chip load tables
// are indexed by.
var ToolDiameters = [8]float64{0.125, 0.1875, 0.25, 0.375, 0.5, 0.625, 0.75, 1.0}

// Material is one row of the reference table.
type Material struct {
	Name          string           `json:"name"`
	Category      MaterialCategory `json:"category"`
	Grades        []string         `json:"grades,omitempty"`
	Description   string           `json:"description,omitempty"`
	HardnessHRC   *float64         `json:"hardness_hrc,omitempty"`
	HardnessHB    *int             `json:"hardness_hb,omitempty"`
	Machinability float64          `json:"machinability"`

	SFMHSS     SFMRange  `json:"sfm_hss"`
	SFMCobalt  SFMRange  `json:"sfm_cobalt"`
	SFMCarbide SFMRange  `json:"sfm_carbide"`
	SFMCoated  SFMRange  `json:"sfm_coated"`
	SFMCeramic *SFMRange `json:"sfm_ceramic,omitempty"`

	ChipLoadsCarbide [8]float64 `json:"chip_loads_carbide"`
	ChipLoadsHSS     [8]float64 `json:"chip_loads_hss"`

	MaxDOCRatio           float64 `json:"max_doc_ratio"`
	RecommendedEngagement float64 `json:"recommended_engagement"`
	CoolantRequired       bool    `json:"coolant_required"`
	HighFeedRecommended   bool    `json:"high_feed_recommended"`
}

// ToolGeometry describes the cutter.
type ToolGeometry struct {
	Diameter     float64
	Flutes       int
	Material     ToolMaterial
	CornerRadius *float64
	Coating      string
	// Stickout is the gauge length out of the holder. Zero means unknown.
	Stickout float64
}

// Engagement is how deep and wide the cutter is in the material.
type Engagement struct {
	AxialDOC  float64
	RadialWOC float64
	// RadialPct is the radial engagement as a percent of diameter, (0, 100].
	RadialPct float64
}

// CuttingParameters are the resolved speeds and feeds.
type CuttingParameters struct {
	RPM uint
	// Feed is in inches per minute.
	Feed float64
	// ChipLoad is inches per tooth after chip thinning.
	ChipLoad float64
	// SFM is the surface speed actually achieved at RPM.
	SFM float64
	// DOC and WOC are the recommended axial and radial engagement.
	DOC float64
	WOC float64
	HP  float64
	// MRR is the removal rate in cubic inches per minute.
	MRR      float64
	Warnings []string
}
