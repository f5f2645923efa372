package blackbook

import (
	"fmt"
	"math"
	"strings"
)

// rpmConstant converts surface feet per minute at a diameter in inches to
// spindle RPM (12/pi, rounded the way shop references print it).
const rpmConstant = 3.82

// RPMFor returns the spindle speed for a surface speed and diameter,
// truncated to a whole RPM.
func RPMFor(sfm, diameter float64) uint {
	if diameter <= 0 || sfm <= 0 {
		return 0
	}
	return uint(rpmConstant * sfm / diameter)
}

// SFMFor is the inverse of RPMFor.
func SFMFor(rpm uint, diameter float64) float64 {
	return float64(rpm) * diameter / rpmConstant
}

// LookupSFM selects the speed range for a tool material. Ceramic and CBN
// use the ceramic range when the material has one, otherwise carbide.
// Diamond uses carbide.
func LookupSFM(m *Material, tm ToolMaterial) SFMRange {
	switch tm {
	case HSS:
		return m.SFMHSS
	case Cobalt:
		return m.SFMCobalt
	case CoatedCarbide:
		return m.SFMCoated
	case Ceramic, CBN:
		if m.SFMCeramic != nil {
			return *m.SFMCeramic
		}
		return m.SFMCarbide
	default:
		return m.SFMCarbide
	}
}

// LookupChipLoad returns the base chip load for a diameter, interpolating
// linearly between the two bracketing standard diameters. Diameters outside
// the table clamp to the end entries.
func LookupChipLoad(m *Material, diameter float64, tm ToolMaterial) float64 {
	table := &m.ChipLoadsCarbide
	if tm == HSS || tm == Cobalt {
		table = &m.ChipLoadsHSS
	}

	last := len(ToolDiameters) - 1
	if diameter <= ToolDiameters[0] {
		return table[0]
	}
	if diameter >= ToolDiameters[last] {
		return table[last]
	}
	for i := 0; i < last; i++ {
		lo, hi := ToolDiameters[i], ToolDiameters[i+1]
		if diameter > hi {
			continue
		}
		pct := (diameter - lo) / (hi - lo)
		return table[i] + (table[i+1]-table[i])*pct
	}
	return table[last]
}

// EngagementFactor is the chip thinning multiplier for a radial engagement
// percentage: 1.0 at or above 50%, 1/sqrt(pct/100) from 10% up to 50%, and
// 3.0 below 10%.
func EngagementFactor(pct float64) float64 {
	switch {
	case pct >= 50:
		return 1.0
	case pct >= 10:
		return 1 / math.Sqrt(pct/100)
	default:
		return 3.0
	}
}

// ChipThinningFactor is the unbounded thinning factor clamped to [1, 3.5].
func ChipThinningFactor(radialPct float64) float64 {
	if radialPct <= 0 {
		return 3.5
	}
	f := 1 / math.Sqrt(radialPct/100)
	return math.Min(math.Max(f, 1), 3.5)
}

// SpeedAdjustment scales surface speed for tool wear, where wear is 1.0 for
// a new tool and 0.0 for a worn one. Tough materials slow down as the tool
// wears; everything else speeds up slightly.
func SpeedAdjustment(wear float64, c MaterialCategory) float64 {
	switch c {
	case Titanium, HighTempAlloy, StainlessAustenitic:
		return 1 - (1-wear)*0.15
	default:
		return 1 + (1-wear)*0.1
	}
}

// unitHorsepower is horsepower per cubic inch per minute removed.
func unitHorsepower(m *Material) float64 {
	switch m.Category {
	case NonFerrous:
		switch {
		case strings.Contains(m.Name, "Aluminum"):
			return 0.25
		case strings.Contains(m.Name, "Brass"):
			return 0.5
		case strings.Contains(m.Name, "Copper"):
			return 0.8
		}
		return 0.4
	case SteelLowAlloy:
		return 1.0
	case SteelHighAlloy:
		return 1.3
	case StainlessAustenitic:
		return 1.0
	case StainlessMartensitic:
		return 1.2
	case StainlessPrecipitation:
		return 1.1
	case CastIron:
		return 0.6
	case Titanium:
		return 1.5
	case HighTempAlloy:
		return 2.0
	case Plastic:
		return 0.1
	case Composite:
		return 0.3
	}
	return 1.0
}

// Compute resolves cutting parameters for a material row.
func Compute(m *Material, tool ToolGeometry, eng Engagement) (*CuttingParameters, error) {
	if tool.Diameter <= 0 || math.IsNaN(tool.Diameter) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToolDiameter, tool.Diameter)
	}
	if eng.RadialPct <= 0 || eng.RadialPct > 100 || math.IsNaN(eng.RadialPct) {
		return nil, fmt.Errorf("%w: radial engagement must be 0-100%%, got %v", ErrInvalidEngagement, eng.RadialPct)
	}
	flutes := tool.Flutes
	if flutes < 1 {
		flutes = 1
	}

	sfm := LookupSFM(m, tool.Material)
	base := LookupChipLoad(m, tool.Diameter, tool.Material)
	factor := EngagementFactor(eng.RadialPct)
	chip := base * factor

	rpm := RPMFor(sfm.Recommended, tool.Diameter)
	if rpm == 0 {
		return nil, fmt.Errorf("%w: no spindle speed for %s with %s", ErrCalculation, m.Name, tool.Material)
	}
	feed := float64(rpm) * chip * float64(flutes)
	actual := SFMFor(rpm, tool.Diameter)
	mrr := eng.RadialWOC * eng.AxialDOC * feed

	p := &CuttingParameters{
		RPM:      rpm,
		Feed:     feed,
		ChipLoad: chip,
		SFM:      actual,
		DOC:      tool.Diameter * m.MaxDOCRatio,
		WOC:      tool.Diameter * m.RecommendedEngagement / 100,
		HP:       mrr * unitHorsepower(m),
		MRR:      mrr,
	}

	if chip > base*3 {
		p.Warnings = append(p.Warnings, fmt.Sprintf(
			"High engagement factor (%v). Ensure tool can handle chip load of %.4f IPT", factor, chip))
	}
	if maxDOC := tool.Diameter * m.MaxDOCRatio; eng.AxialDOC > maxDOC {
		p.Warnings = append(p.Warnings, fmt.Sprintf(
			"DOC %.3f\" exceeds recommended maximum %.3f\" for %s in %s", eng.AxialDOC, maxDOC, m.Name, tool.Material))
	}
	nominal := float64(rpm) * base * float64(flutes)
	if m.HighFeedRecommended && feed < nominal*0.5 {
		p.Warnings = append(p.Warnings, fmt.Sprintf(
			"%s work hardens. Consider increasing feed to %.1f IPM to stay ahead of hardening front", m.Name, nominal))
	}
	if m.CoolantRequired {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%s requires flood coolant for optimal tool life", m.Name))
	}
	if actual < sfm.Min {
		p.Warnings = append(p.Warnings, fmt.Sprintf("SFM %.0f is below minimum %.0f for %s", actual, sfm.Min, m.Name))
	} else if actual > sfm.Max {
		p.Warnings = append(p.Warnings, fmt.Sprintf(
			"SFM %.0f exceeds maximum %.0f for %s - may cause rapid tool wear", actual, sfm.Max, m.Name))
	}

	return p, nil
}

// ApplyRPMLimit caps the spindle speed at limit. Feed, surface speed, MRR
// and horsepower scale by the same ratio so the chip load is unchanged.
// Parameters already at or under the limit are returned as a copy.
func ApplyRPMLimit(p CuttingParameters, limit uint) CuttingParameters {
	if limit == 0 || p.RPM <= limit {
		return p
	}
	k := float64(limit) / float64(p.RPM)
	p.RPM = limit
	p.Feed *= k
	p.SFM *= k
	p.MRR *= k
	p.HP *= k
	p.Warnings = append(append([]string(nil), p.Warnings...),
		fmt.Sprintf("RPM limited to %d, feed scaled to %.1f IPM", limit, p.Feed))
	return p
}

// PresetKind selects a canned strategy for Preset.
type PresetKind int

const (
	Roughing PresetKind = iota
	Finishing
	Adaptive
)

func (k PresetKind) String() string {
	switch k {
	case Roughing:
		return "roughing"
	case Finishing:
		return "finishing"
	case Adaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("PresetKind(%d)", int(k))
	}
}

// ParsePresetKind accepts the names produced by String.
func ParsePresetKind(s string) (PresetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "roughing", "rough":
		return Roughing, nil
	case "finishing", "finish":
		return Finishing, nil
	case "adaptive", "hem":
		return Adaptive, nil
	}
	return 0, fmt.Errorf("unknown preset %q", s)
}

// RecommendedParameters is the output of a preset.
type RecommendedParameters struct {
	RPM         uint
	Feed        float64
	DOC         float64
	WOC         float64
	Description string
}

// ComputePreset applies a roughing, finishing or adaptive strategy.
func ComputePreset(m *Material, tool ToolGeometry, kind PresetKind) (RecommendedParameters, error) {
	if tool.Diameter <= 0 {
		return RecommendedParameters{}, fmt.Errorf("%w: %v", ErrInvalidToolDiameter, tool.Diameter)
	}
	flutes := float64(max(tool.Flutes, 1))
	sfm := LookupSFM(m, tool.Material)
	chip := LookupChipLoad(m, tool.Diameter, tool.Material)

	switch kind {
	case Roughing:
		rpm := RPMFor(sfm.Min+(sfm.Max-sfm.Min)*0.6, tool.Diameter)
		return RecommendedParameters{
			RPM:         rpm,
			Feed:        float64(rpm) * chip * 1.2 * flutes,
			DOC:         tool.Diameter * m.MaxDOCRatio,
			WOC:         tool.Diameter * m.RecommendedEngagement / 100,
			Description: "Roughing - maximize MRR",
		}, nil
	case Finishing:
		rpm := RPMFor(sfm.Max*0.9, tool.Diameter)
		return RecommendedParameters{
			RPM:         rpm,
			Feed:        float64(rpm) * chip * 0.5 * flutes,
			DOC:         tool.Diameter * 0.1,
			WOC:         tool.Diameter * 0.05,
			Description: "Finishing - maximize surface quality",
		}, nil
	case Adaptive:
		rpm := RPMFor(sfm.Max*0.85, tool.Diameter)
		return RecommendedParameters{
			RPM:         rpm,
			Feed:        float64(rpm) * chip * EngagementFactor(10) * flutes,
			DOC:         tool.Diameter * 1.5,
			WOC:         tool.Diameter * 0.10,
			Description: "Adaptive/HEM - chip thinning strategy",
		}, nil
	}
	return RecommendedParameters{}, fmt.Errorf("%w: unknown preset %v", ErrCalculation, kind)
}
