package blackbook

import (
	"fmt"
	"math"
)

// Severity ranks an Issue.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Issue is one finding from ValidateParameters or CheckSafetyLimits.
type Issue struct {
	Severity   Severity
	Code       string
	Message    string
	Suggestion string
}

func (i Issue) String() string {
	if i.Suggestion == "" {
		return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Code, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", i.Severity, i.Code, i.Message, i.Suggestion)
}

// MaxRPMForDiameter is the balance limit for a cutter of the given size.
func MaxRPMForDiameter(d float64) uint {
	switch {
	case d <= 0.0625:
		return 40000
	case d <= 0.125:
		return 30000
	case d <= 0.25:
		return 20000
	case d <= 0.375:
		return 15000
	case d <= 0.5:
		return 12000
	case d <= 0.75:
		return 8000
	case d <= 1.0:
		return 6000
	default:
		return 4000
	}
}

// maxLD is the stickout to diameter ratio above which deep cuts deflect.
const maxLD = 4.0

// ValidateParameters checks resolved parameters against tool and material
// limits.
func ValidateParameters(p *CuttingParameters, m *Material, tool ToolGeometry) []Issue {
	var issues []Issue

	if limit := MaxRPMForDiameter(tool.Diameter); p.RPM > limit {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Code:       "RPM_TOO_HIGH",
			Message:    fmt.Sprintf("RPM %d exceeds maximum %d for %v\" tool. Risk of tool failure.", p.RPM, limit, tool.Diameter),
			Suggestion: fmt.Sprintf("Reduce SFM to %.0f or use smaller tool", SFMFor(limit, tool.Diameter)),
		})
	}

	if p.ChipLoad > tool.Diameter*0.05 {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "CHIP_LOAD_HIGH",
			Message:    fmt.Sprintf("Chip load %.4f\" is aggressive for %v\" tool", p.ChipLoad, tool.Diameter),
			Suggestion: "Reduce feed or increase RPM",
		})
	}

	if p.ChipLoad < 0.0005 && p.Feed > 0 {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "POSSIBLE_RUBBING",
			Message:    fmt.Sprintf("Chip load %.4f\" may cause rubbing and work hardening", p.ChipLoad),
			Suggestion: "Increase feed rate or reduce RPM",
		})
	}

	stickout := tool.Stickout
	if stickout <= 0 {
		stickout = tool.Diameter * 3
	}
	if ld := stickout / tool.Diameter; ld > maxLD && p.DOC > tool.Diameter*0.5 {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "TOOL_DEFLECTION",
			Message:    fmt.Sprintf("L/D ratio %.1f with DOC %.3f\" may cause tool deflection", ld, p.DOC),
			Suggestion: "Reduce DOC or use shorter tool",
		})
	}

	switch m.Category {
	case StainlessAustenitic:
		if p.Feed < tool.Diameter*20 {
			issues = append(issues, Issue{
				Severity:   SeverityError,
				Code:       "WORK_HARDENING_RISK",
				Message:    "Low feed rate may cause work hardening in austenitic stainless",
				Suggestion: fmt.Sprintf("Increase feed to at least %.1f IPM to stay ahead of hardening front", tool.Diameter*30),
			})
		}
	case Titanium:
		if p.SFM > 150 {
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Code:       "TITANIUM_HEAT",
				Message:    "High SFM generates excessive heat in titanium",
				Suggestion: "Reduce SFM below 150, ensure flood coolant",
			})
		}
	case HighTempAlloy:
		if p.DOC > tool.Diameter*0.2 {
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Code:       "NICKEL_ALLOY_DOC",
				Message:    "Deep cuts cause rapid tool wear in nickel alloys",
				Suggestion: "Use multiple shallow passes",
			})
		}
	}

	if m.CoolantRequired {
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Code:     "COOLANT_RECOMMENDED",
			Message:  fmt.Sprintf("%s performs best with flood coolant", m.Name),
		})
	}

	return issues
}

// CheckSafetyLimits compares parameters with what the machine can do.
func CheckSafetyLimits(p *CuttingParameters, maxRPM uint, maxFeed, maxHP float64) []Issue {
	var issues []Issue
	if p.RPM > maxRPM {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Code:       "MACHINE_RPM_EXCEEDED",
			Message:    fmt.Sprintf("Required RPM %d exceeds machine maximum %d", p.RPM, maxRPM),
			Suggestion: "Use larger tool or different material strategy",
		})
	}
	if p.Feed > maxFeed {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Code:       "MACHINE_FEED_EXCEEDED",
			Message:    fmt.Sprintf("Required feed %.1f IPM exceeds machine maximum %.1f IPM", p.Feed, maxFeed),
			Suggestion: "Reduce feed or use different tool/flute count",
		})
	}
	if p.HP > maxHP {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Code:       "MACHINE_HP_LIMIT",
			Message:    fmt.Sprintf("Operation requires %.2f HP, machine rated for %.2f HP", p.HP, maxHP),
			Suggestion: "Reduce DOC/WOC or take lighter passes",
		})
	}
	return issues
}

// ToolLifeEstimate is a rough Taylor-equation estimate.
type ToolLifeEstimate struct {
	Minutes    float64
	Confidence float64
	Factors    []string
}

// taylorN is the Taylor tool life exponent.
const taylorN = 0.25

func taylorC(tm ToolMaterial) float64 {
	switch tm {
	case HSS:
		return 80
	case Cobalt:
		return 120
	case Carbide:
		return 400
	case CoatedCarbide:
		return 600
	case Ceramic:
		return 2000
	case CBN:
		return 3000
	case Diamond:
		return 5000
	}
	return 400
}

// EstimateToolLife estimates minutes of cutting before the tool is worn.
// The Taylor constant is derated by machinability, and heavier chip loads
// shorten life further.
func EstimateToolLife(m *Material, sfm, chipLoad float64, tm ToolMaterial) ToolLifeEstimate {
	c := taylorC(tm) * m.Machinability / 100
	life := 0.0
	if sfm > 0 {
		life = math.Pow(c/sfm, 1/taylorN)
	}
	life *= 1 / (1 + chipLoad/0.01*0.1)

	confidence := 0.6
	if sfm < 200 {
		confidence = 0.8
	}
	return ToolLifeEstimate{
		Minutes:    life,
		Confidence: confidence,
		Factors: []string{
			fmt.Sprintf("SFM: %.0f", sfm),
			fmt.Sprintf("Material machinability: %.0f%%", m.Machinability),
		},
	}
}
