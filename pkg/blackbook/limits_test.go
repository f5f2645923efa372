package blackbook

import (
	"slices"
	"testing"
)

func hasCode(issues []Issue, code string) bool {
	return slices.ContainsFunc(issues, func(i Issue) bool { return i.Code == code })
}

func TestValidateParametersWorkHardening(t *testing.T) {
	b := New()
	m, _ := b.Lookup("Stainless 304")
	tool := carbide(0.25, 4)

	// 0.25 * 20 = 5.0 IPM threshold
	p := &CuttingParameters{RPM: 5000, Feed: 4.0, ChipLoad: 0.0002, SFM: 327, DOC: 0.1, WOC: 0.05}
	issues := ValidateParameters(p, m, tool)
	if !hasCode(issues, "WORK_HARDENING_RISK") {
		t.Errorf("issues %v missing WORK_HARDENING_RISK", issues)
	}
	if !hasCode(issues, "POSSIBLE_RUBBING") {
		t.Errorf("issues %v missing POSSIBLE_RUBBING", issues)
	}
	if !hasCode(issues, "COOLANT_RECOMMENDED") {
		t.Errorf("issues %v missing COOLANT_RECOMMENDED", issues)
	}
}

func TestValidateParametersToolLimits(t *testing.T) {
	b := New()
	m, _ := b.Lookup("Aluminum 6061-T6")

	tests := []struct {
		name string
		tool ToolGeometry
		p    CuttingParameters
		code string
		want bool
	}{
		{"rpm over balance limit", carbide(0.5, 3), CuttingParameters{RPM: 13000, Feed: 100, ChipLoad: 0.003}, "RPM_TOO_HIGH", true},
		{"rpm at balance limit", carbide(0.5, 3), CuttingParameters{RPM: 12000, Feed: 100, ChipLoad: 0.003}, "RPM_TOO_HIGH", false},
		{"chip load aggressive", carbide(0.125, 2), CuttingParameters{RPM: 10000, Feed: 100, ChipLoad: 0.007}, "CHIP_LOAD_HIGH", true},
		{"default stickout no deflection", carbide(0.25, 3), CuttingParameters{RPM: 10000, Feed: 60, ChipLoad: 0.002, DOC: 0.3}, "TOOL_DEFLECTION", false},
		{"long stickout deflects", ToolGeometry{Diameter: 0.25, Flutes: 3, Material: Carbide, Stickout: 2}, CuttingParameters{RPM: 10000, Feed: 60, ChipLoad: 0.002, DOC: 0.3}, "TOOL_DEFLECTION", true},
		{"long stickout shallow cut", ToolGeometry{Diameter: 0.25, Flutes: 3, Material: Carbide, Stickout: 2}, CuttingParameters{RPM: 10000, Feed: 60, ChipLoad: 0.002, DOC: 0.1}, "TOOL_DEFLECTION", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ValidateParameters(&tt.p, m, tt.tool)
			if got := hasCode(issues, tt.code); got != tt.want {
				t.Errorf("has %s = %v, want %v (issues %v)", tt.code, got, tt.want, issues)
			}
		})
	}
}

func TestValidateParametersExotics(t *testing.T) {
	b := New()
	ti, _ := b.Lookup("Titanium Ti-6Al-4V")
	if issues := ValidateParameters(&CuttingParameters{SFM: 200, Feed: 20, ChipLoad: 0.001}, ti, carbide(0.25, 4)); !hasCode(issues, "TITANIUM_HEAT") {
		t.Errorf("titanium at 200 SFM: issues %v missing TITANIUM_HEAT", issues)
	}
	inco, _ := b.Lookup("Inconel 718")
	if issues := ValidateParameters(&CuttingParameters{SFM: 50, Feed: 5, ChipLoad: 0.001, DOC: 0.1}, inco, carbide(0.25, 4)); !hasCode(issues, "NICKEL_ALLOY_DOC") {
		t.Errorf("inconel DOC 0.1: issues %v missing NICKEL_ALLOY_DOC", issues)
	}
}

func TestMaxRPMForDiameter(t *testing.T) {
	tests := []struct {
		dia  float64
		want uint
	}{
		{0.0625, 40000},
		{0.125, 30000},
		{0.25, 20000},
		{0.5, 12000},
		{0.75, 8000},
		{1.0, 6000},
		{1.5, 4000},
	}
	for _, tt := range tests {
		if got := MaxRPMForDiameter(tt.dia); got != tt.want {
			t.Errorf("MaxRPMForDiameter(%v) = %d, want %d", tt.dia, got, tt.want)
		}
	}
}

func TestCheckSafetyLimits(t *testing.T) {
	p := &CuttingParameters{RPM: 15000, Feed: 100, ChipLoad: 0.002, SFM: 500, DOC: 0.1, WOC: 0.05, HP: 5, MRR: 0.5}
	issues := CheckSafetyLimits(p, 10000, 50, 3)
	for _, code := range []string{"MACHINE_RPM_EXCEEDED", "MACHINE_FEED_EXCEEDED", "MACHINE_HP_LIMIT"} {
		if !hasCode(issues, code) {
			t.Errorf("issues %v missing %s", issues, code)
		}
	}
	if issues := CheckSafetyLimits(p, 20000, 200, 10); len(issues) != 0 {
		t.Errorf("expected no issues within limits, got %v", issues)
	}
}

func TestEstimateToolLife(t *testing.T) {
	b := New()
	m, _ := b.Lookup("Aluminum 6061-T6")
	est := EstimateToolLife(m, 1200, 0.002, Carbide)
	if est.Minutes <= 0 {
		t.Errorf("Minutes = %v, want > 0", est.Minutes)
	}
	if est.Confidence != 0.6 {
		t.Errorf("Confidence = %v, want 0.6", est.Confidence)
	}
	if len(est.Factors) != 2 || est.Factors[0] != "SFM: 1200" || est.Factors[1] != "Material machinability: 200%" {
		t.Errorf("Factors = %q", est.Factors)
	}

	slow := EstimateToolLife(m, 600, 0.002, Carbide)
	if slow.Minutes <= est.Minutes {
		t.Errorf("life at 600 SFM %v not longer than at 1200 SFM %v", slow.Minutes, est.Minutes)
	}
}

func TestSpeedAdjustment(t *testing.T) {
	if got := SpeedAdjustment(1.0, Titanium); got != 1.0 {
		t.Errorf("new tool titanium = %v, want 1.0", got)
	}
	if got := SpeedAdjustment(0.0, Titanium); !approx(got, 0.85) {
		t.Errorf("worn tool titanium = %v, want 0.85", got)
	}
	if got := SpeedAdjustment(0.0, NonFerrous); !approx(got, 1.1) {
		t.Errorf("worn tool aluminum = %v, want 1.1", got)
	}
}
