package blackbook

import "github.com/samber/lo"

// Chip load rows shared by several materials.
var (
	alumCarbide = [8]float64{0.001, 0.002, 0.002, 0.003, 0.004, 0.005, 0.006, 0.007}
	alumHSS     = [8]float64{0.0005, 0.001, 0.001, 0.002, 0.002, 0.003, 0.003, 0.004}

	brassCarbide = [8]float64{0.001, 0.001, 0.002, 0.0025, 0.003, 0.004, 0.004, 0.005}

	chromolyCarbide = [8]float64{0.0005, 0.0005, 0.001, 0.001, 0.0015, 0.002, 0.003, 0.004}
	chromolyHSS     = [8]float64{0.0002, 0.0003, 0.0005, 0.001, 0.001, 0.0015, 0.002, 0.0025}

	austeniticCarbide = [8]float64{0.0001, 0.0002, 0.0005, 0.001, 0.0015, 0.002, 0.003, 0.004}
	austeniticHSS     = [8]float64{0.0001, 0.0001, 0.0002, 0.0005, 0.001, 0.001, 0.002, 0.0025}
)

// DefaultMaterials returns a fresh copy of the built-in material table.
func DefaultMaterials() []*Material {
	return []*Material{
		// Non-ferrous
		{
			Name:                  "Aluminum 6061-T6",
			Category:              NonFerrous,
			Grades:                []string{"6061-T6", "6061-T651"},
			Description:           "General purpose aluminum alloy, excellent machinability",
			HardnessHB:            lo.ToPtr(95),
			Machinability:         200,
			SFMHSS:                SFMRange{300, 600, 450},
			SFMCobalt:             SFMRange{400, 800, 600},
			SFMCarbide:            SFMRange{800, 1500, 1200},
			SFMCoated:             SFMRange{1000, 2000, 1500},
			ChipLoadsCarbide:      alumCarbide,
			ChipLoadsHSS:          alumHSS,
			MaxDOCRatio:           1.5,
			RecommendedEngagement: 30,
			HighFeedRecommended:   true,
		},
		{
			Name:                  "Aluminum 7075-T6",
			Category:              NonFerrous,
			Grades:                []string{"7075-T6", "7075-T651"},
			Description:           "High strength aircraft aluminum",
			HardnessHB:            lo.ToPtr(150),
			Machinability:         150,
			SFMHSS:                SFMRange{250, 500, 400},
			SFMCobalt:             SFMRange{350, 700, 550},
			SFMCarbide:            SFMRange{800, 1500, 1100},
			SFMCoated:             SFMRange{900, 1800, 1300},
			ChipLoadsCarbide:      alumCarbide,
			ChipLoadsHSS:          alumHSS,
			MaxDOCRatio:           1.0,
			RecommendedEngagement: 25,
			HighFeedRecommended:   true,
		},
		{
			Name:                  "Aluminum 2024-T3",
			Category:              NonFerrous,
			Grades:                []string{"2024-T3", "2024-T4", "2024-T6"},
			Description:           "High strength, fair corrosion resistance",
			HardnessHB:            lo.ToPtr(120),
			Machinability:         170,
			SFMHSS:                SFMRange{250, 500, 400},
			SFMCobalt:             SFMRange{350, 700, 550},
			SFMCarbide:            SFMRange{800, 1500, 1100},
			SFMCoated:             SFMRange{900, 1800, 1300},
			ChipLoadsCarbide:      alumCarbide,
			ChipLoadsHSS:          alumHSS,
			MaxDOCRatio:           1.0,
			RecommendedEngagement: 25,
			HighFeedRecommended:   true,
		},
		{
			Name:                  "Brass C360",
			Category:              NonFerrous,
			Grades:                []string{"C36000", "Free Machining Brass"},
			Description:           "Excellent machinability, free machining brass",
			HardnessHB:            lo.ToPtr(80),
			Machinability:         100,
			SFMHSS:                SFMRange{200, 400, 300},
			SFMCobalt:             SFMRange{300, 600, 450},
			SFMCarbide:            SFMRange{800, 1500, 1200},
			SFMCoated:             SFMRange{1000, 1800, 1400},
			ChipLoadsCarbide:      brassCarbide,
			ChipLoadsHSS:          [8]float64{0.0005, 0.001, 0.001, 0.0015, 0.002, 0.0025, 0.003, 0.0035},
			MaxDOCRatio:           2.0,
			RecommendedEngagement: 40,
			HighFeedRecommended:   true,
		},
		{
			Name:                  "Copper C110",
			Category:              NonFerrous,
			Grades:                []string{"C11000", "ETP Copper"},
			Description:           "Electrolytic tough pitch copper",
			HardnessHB:            lo.ToPtr(45),
			Machinability:         20,
			SFMHSS:                SFMRange{100, 200, 150},
			SFMCobalt:             SFMRange{150, 300, 225},
			SFMCarbide:            SFMRange{600, 1000, 800},
			SFMCoated:             SFMRange{800, 1200, 1000},
			ChipLoadsCarbide:      brassCarbide,
			ChipLoadsHSS:          [8]float64{0.0003, 0.0005, 0.001, 0.0015, 0.002, 0.0025, 0.003, 0.0035},
			MaxDOCRatio:           1.0,
			RecommendedEngagement: 20,
			CoolantRequired:       true,
		},

		// Carbon and alloy steel
		{
			Name:                  "Steel 1018",
			Category:              SteelLowAlloy,
			Grades:                []string{"1018", "A36", "1020"},
			Description:           "Low carbon steel, good machinability",
			HardnessHB:            lo.ToPtr(126),
			Machinability:         78,
			SFMHSS:                SFMRange{80, 150, 120},
			SFMCobalt:             SFMRange{100, 200, 150},
			SFMCarbide:            SFMRange{200, 400, 300},
			SFMCoated:             SFMRange{300, 600, 450},
			ChipLoadsCarbide:      [8]float64{0.0005, 0.001, 0.0015, 0.002, 0.003, 0.004, 0.005, 0.006},
			ChipLoadsHSS:          [8]float64{0.0003, 0.0005, 0.001, 0.0015, 0.002, 0.0025, 0.003, 0.004},
			MaxDOCRatio:           1.0,
			RecommendedEngagement: 30,
			CoolantRequired:       true,
		},
		{
			Name:                  "Steel 4140",
			Category:              SteelLowAlloy,
			Grades:                []string{"4140", "4142", "4150"},
			Description:           "Chromoly steel, medium hardenability",
			HardnessHRC:           lo.ToPtr(28.0),
			HardnessHB:            lo.ToPtr(220),
			Machinability:         66,
			SFMHSS:                SFMRange{60, 100, 80},
			SFMCobalt:             SFMRange{80, 140, 110},
			SFMCarbide:            SFMRange{150, 300, 225},
			SFMCoated:             SFMRange{200, 400, 300},
			ChipLoadsCarbide:      chromolyCarbide,
			ChipLoadsHSS:          chromolyHSS,
			MaxDOCRatio:           0.5,
			RecommendedEngagement: 20,
			CoolantRequired:       true,
		},
		{
			Name:                  "Steel 8620",
			Category:              SteelLowAlloy,
			Grades:                []string{"8620", "8620H"},
			Description:           "Case-hardening steel, tough core with hard surface",
			HardnessHRC:           lo.ToPtr(25.0),
			HardnessHB:            lo.ToPtr(200),
			Machinability:         65,
			SFMHSS:                SFMRange{50, 90, 70},
			SFMCobalt:             SFMRange{70, 120, 95},
			SFMCarbide:            SFMRange{130, 260, 195},
			SFMCoated:             SFMRange{180, 350, 265},
			ChipLoadsCarbide:      chromolyCarbide,
			ChipLoadsHSS:          chromolyHSS,
			MaxDOCRatio:           0.5,
			RecommendedEngagement: 20,
			CoolantRequired:       true,
		},
		{
			Name:                  "Steel A2",
			Category:              SteelHighAlloy,
			Grades:                []string{"A2", "A6", "D2", "O1"},
			Description:           "Air hardening tool steel",
			HardnessHRC:           lo.ToPtr(62.0),
			HardnessHB:            lo.ToPtr(235),
			Machinability:         65,
			SFMHSS:                SFMRange{40, 80, 60},
			SFMCobalt:             SFMRange{50, 100, 75},
			SFMCarbide:            SFMRange{100, 250, 175},
			SFMCoated:             SFMRange{150, 350, 250},
			SFMCeramic:            &SFMRange{300, 500, 400},
			ChipLoadsCarbide:      [8]float64{0.0003, 0.0005, 0.0008, 0.001, 0.001, 0.0015, 0.002, 0.003},
			ChipLoadsHSS:          [8]float64{0.0001, 0.0002, 0.0003, 0.0005, 0.0008, 0.001, 0.001, 0.002},
			MaxDOCRatio:           0.3,
			RecommendedEngagement: 15,
			CoolantRequired:       true,
		},

		// Stainless
		{
			Name:                  "Stainless 304",
			Category:              StainlessAustenitic,
			Grades:                []string{"304", "304L", "302", "303"},
			Description:           "Austenitic stainless, work hardens quickly",
			HardnessHB:            lo.ToPtr(150),
			Machinability:         45,
			SFMHSS:                SFMRange{30, 60, 45},
			SFMCobalt:             SFMRange{50, 100, 75},
			SFMCarbide:            SFMRange{100, 350, 225},
			SFMCoated:             SFMRange{150, 450, 300},
			ChipLoadsCarbide:      austeniticCarbide,
			ChipLoadsHSS:          austeniticHSS,
			MaxDOCRatio:           0.5,
			RecommendedEngagement: 10,
			CoolantRequired:       true,
			HighFeedRecommended:   true,
		},
		{
			Name:                  "Stainless 316",
			Category:              StainlessAustenitic,
			Grades:                []string{"316", "316L"},
			Description:           "Marine grade stainless, more difficult than 304",
			HardnessHB:            lo.ToPtr(160),
			Machinability:         36,
			SFMHSS:                SFMRange{25, 50, 40},
			SFMCobalt:             SFMRange{40, 80, 60},
			SFMCarbide:            SFMRange{100, 250, 175},
			SFMCoated:             SFMRange{150, 350, 250},
			ChipLoadsCarbide:      austeniticCarbide,
			ChipLoadsHSS:          austeniticHSS,
			MaxDOCRatio:           0.4,
			RecommendedEngagement: 10,
			CoolantRequired:       true,
			HighFeedRecommended:   true,
		},
		{
			Name:                  "Stainless 17-4PH",
			Category:              StainlessPrecipitation,
			Grades:                []string{"17-4PH", "15-5PH"},
			Description:           "Precipitation hardening stainless",
			HardnessHRC:           lo.ToPtr(35.0),
			HardnessHB:            lo.ToPtr(330),
			Machinability:         48,
			SFMHSS:                SFMRange{30, 60, 45},
			SFMCobalt:             SFMRange{50, 90, 70},
			SFMCarbide:            SFMRange{90, 250, 170},
			SFMCoated:             SFMRange{120, 300, 210},
			ChipLoadsCarbide:      [8]float64{0.0003, 0.0005, 0.001, 0.001, 0.002, 0.002, 0.004, 0.006},
			ChipLoadsHSS:          [8]float64{0.0001, 0.0002, 0.0003, 0.0005, 0.001, 0.0015, 0.002, 0.003},
			MaxDOCRatio:           0.5,
			RecommendedEngagement: 15,
			CoolantRequired:       true,
		},
		{
			Name:                  "Stainless 440C",
			Category:              StainlessMartensitic,
			Grades:                []string{"440C", "420"},
			Description:           "Martensitic stainless, can be hardened to 60 HRC",
			HardnessHRC:           lo.ToPtr(60.0),
			HardnessHB:            lo.ToPtr(240),
			Machinability:         40,
			SFMHSS:                SFMRange{25, 50, 40},
			SFMCobalt:             SFMRange{40, 80, 60},
			SFMCarbide:            SFMRange{90, 250, 170},
			SFMCoated:             SFMRange{120, 300, 210},
			ChipLoadsCarbide:      [8]float64{0.0001, 0.0002, 0.0005, 0.0005, 0.001, 0.001, 0.003, 0.004},
			ChipLoadsHSS:          [8]float64{0.00005, 0.0001, 0.0002, 0.0003, 0.0005, 0.001, 0.0015, 0.002},
			MaxDOCRatio:           0.3,
			RecommendedEngagement: 12,
			CoolantRequired:       true,
		},

		// Cast iron
		{
			Name:                  "Cast Iron Gray",
			Category:              CastIron,
			Grades:                []string{"Class 30", "Class 40"},
			Description:           "Gray cast iron, excellent damping properties",
			HardnessHB:            lo.ToPtr(210),
			Machinability:         110,
			SFMHSS:                SFMRange{50, 120, 85},
			SFMCobalt:             SFMRange{80, 150, 115},
			SFMCarbide:            SFMRange{100, 400, 250},
			SFMCoated:             SFMRange{150, 500, 325},
			SFMCeramic:            &SFMRange{400, 800, 600},
			ChipLoadsCarbide:      [8]float64{0.0005, 0.001, 0.002, 0.003, 0.004, 0.005, 0.006, 0.008},
			ChipLoadsHSS:          [8]float64{0.0003, 0.0005, 0.001, 0.0015, 0.002, 0.003, 0.004, 0.005},
			MaxDOCRatio:           1.0,
			RecommendedEngagement: 40,
		},
		{
			Name:                  "Cast Iron Ductile",
			Category:              CastIron,
			Grades:                []string{"65-45-12", "80-55-06"},
			Description:           "Ductile/nodular cast iron",
			HardnessHB:            lo.ToPtr(180),
			Machinability:         90,
			SFMHSS:                SFMRange{40, 100, 70},
			SFMCobalt:             SFMRange{60, 120, 90},
			SFMCarbide:            SFMRange{80, 300, 190},
			SFMCoated:             SFMRange{120, 400, 260},
			SFMCeramic:            &SFMRange{300, 600, 450},
			ChipLoadsCarbide:      [8]float64{0.0005, 0.001, 0.0015, 0.002, 0.0025, 0.003, 0.004, 0.005},
			ChipLoadsHSS:          [8]float64{0.0003, 0.0005, 0.0008, 0.001, 0.0015, 0.002, 0.003, 0.004},
			MaxDOCRatio:           0.8,
			RecommendedEngagement: 35,
			CoolantRequired:       true,
		},

		// Exotics
		{
			Name:                  "Titanium Ti-6Al-4V",
			Category:              Titanium,
			Grades:                []string{"Grade 5", "Ti-6Al-4V", "Ti64"},
			Description:           "Most common titanium alloy, poor thermal conductivity",
			HardnessHRC:           lo.ToPtr(36.0),
			HardnessHB:            lo.ToPtr(334),
			Machinability:         22,
			SFMHSS:                SFMRange{20, 40, 30},
			SFMCobalt:             SFMRange{30, 60, 45},
			SFMCarbide:            SFMRange{50, 150, 100},
			SFMCoated:             SFMRange{80, 200, 140},
			ChipLoadsCarbide:      [8]float64{0.0003, 0.0005, 0.001, 0.001, 0.001, 0.0015, 0.002, 0.003},
			ChipLoadsHSS:          [8]float64{0.0001, 0.0002, 0.0003, 0.0005, 0.0008, 0.001, 0.001, 0.002},
			MaxDOCRatio:           0.3,
			RecommendedEngagement: 10,
			CoolantRequired:       true,
			HighFeedRecommended:   true,
		},
		{
			Name:                  "Inconel 718",
			Category:              HighTempAlloy,
			Grades:                []string{"Inconel 718", "N07718"},
			Description:           "Nickel-based superalloy, extreme heat resistance",
			HardnessHRC:           lo.ToPtr(47.0),
			HardnessHB:            lo.ToPtr(450),
			Machinability:         12,
			SFMHSS:                SFMRange{10, 20, 15},
			SFMCobalt:             SFMRange{15, 30, 22},
			SFMCarbide:            SFMRange{30, 80, 55},
			SFMCoated:             SFMRange{50, 120, 85},
			SFMCeramic:            &SFMRange{200, 400, 300},
			ChipLoadsCarbide:      [8]float64{0.0002, 0.0003, 0.0005, 0.0008, 0.001, 0.001, 0.002, 0.003},
			ChipLoadsHSS:          [8]float64{0.00005, 0.0001, 0.0002, 0.0003, 0.0005, 0.0008, 0.001, 0.0015},
			MaxDOCRatio:           0.2,
			RecommendedEngagement: 8,
			CoolantRequired:       true,
			HighFeedRecommended:   true,
		},
	}
}
