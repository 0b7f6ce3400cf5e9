package domain

import "strings"

// Odor, Taste and Color are the categorical fields of a resident's sensory report.
// Values outside the listed constants are valid input and classify as "other".
type (
	Odor  string
	Taste string
	Color string
)

const (
	OdorNormal  Odor = "normal"
	OdorFishy   Odor = "fishy" // fishy or earthy
	OdorPutrid  Odor = "putrid"
	OdorAmmonia Odor = "ammonia"
	OdorOther   Odor = "other"
)

const (
	TasteNormal     Taste = "normal"
	TasteBitter     Taste = "bitter"
	TasteSalty      Taste = "salty"
	TasteMetallic   Taste = "metallic"
	TasteHeavyMetal Taste = "heavy_metal"
	TasteOther      Taste = "other"
)

const (
	ColorClear  Color = "clear"
	ColorTurbid Color = "turbid"
	ColorYellow Color = "yellow"
	ColorBrown  Color = "brown"
	ColorGreen  Color = "green"
	ColorOther  Color = "other"
)

// SensoryInput is the three-field observation a resident submits.
type SensoryInput struct {
	Odor  Odor  `json:"odor"`
	Taste Taste `json:"taste"`
	Color Color `json:"color"`
}

// Normalize lowercases and trims every field and folds known aliases
// ("earthy" smells the same as "fishy").
func (in SensoryInput) Normalize() SensoryInput {
	odor := Odor(normalizeCategory(string(in.Odor)))
	if odor == "earthy" {
		odor = OdorFishy
	}
	return SensoryInput{
		Odor:  odor,
		Taste: Taste(normalizeCategory(string(in.Taste))),
		Color: Color(normalizeCategory(string(in.Color))),
	}
}

// Missing reports the names of empty fields. All three are required by the
// intake surfaces; the classifier itself treats an empty value as "other".
func (in SensoryInput) Missing() []string {
	var missing []string
	if strings.TrimSpace(string(in.Odor)) == "" {
		missing = append(missing, "odor")
	}
	if strings.TrimSpace(string(in.Taste)) == "" {
		missing = append(missing, "taste")
	}
	if strings.TrimSpace(string(in.Color)) == "" {
		missing = append(missing, "color")
	}
	return missing
}

func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// Findings emitted by the sensory rules.
const (
	ContaminantOrganic        = "organic contaminant"
	ContaminantIronManganese  = "high iron/manganese"
	ContaminantAnaerobic      = "anaerobic bacteria"
	ContaminantAmmonia        = "ammonia"
	ContaminantChemical       = "chemical contaminant"
	ContaminantMineral        = "high mineral content"
	ContaminantSalt           = "high salt/chloride"
	ContaminantHeavyMetals    = "heavy metals"
	ContaminantSuspended      = "suspended particles"
	ContaminantTanninOrIron   = "tannin/humus or iron"
	ContaminantIronOrOrganics = "high iron or organics"
	ContaminantAlgaeOrCopper  = "algae or copper"
	ContaminantUnknown        = "unknown contaminant"

	RiskDigestive    = "digestive disturbance"
	RiskHypertension = "hypertension with long-term consumption"
	RiskHeavyMetal   = "heavy-metal poisoning"

	ActionDoNotDrink       = "DO NOT DRINK"
	ActionStopConsumption  = "stop consumption immediately"
	ActionNoDrinkingUse    = "do not use for drinking"
	ActionReportToCenter   = "report to the nearest health center immediately"
	ActionFindSafeSource   = "find the nearest safe water source"
	RecommendBoil          = "boil water before drinking"
	RecommendAlternate     = "use an alternate water source temporarily"
	RecommendLabAnalysis   = "laboratory analysis required"
	RecommendAerationSand  = "aeration and sand filtration"
	RecommendChlorineBoil  = "chlorination and boiling"
	RecommendAerationChlor = "aeration and chlorination"
	RecommendRO            = "reverse osmosis"
	RecommendDistillation  = "distillation or alternate source"
	RecommendAerationFilt  = "aeration and filtration"
	RecommendIdentifyMetal = "laboratory identification of the metal"
	RecommendSedimentFilt  = "sedimentation and filtration"
	RecommendCarbonFilt    = "activated carbon and filtration"
	RecommendSedAerFilt    = "sedimentation, aeration and filtration"
	RecommendChlorineFilt  = "chlorination and filtration"
)

// Penalties applied per abnormal sensory field.
const (
	odorPenalty  = 30
	tastePenalty = 25
	colorPenalty = 20
)

// ClassifySensory scores a sensory report. It is pure and total: any value,
// including unrecognized ones, produces a verdict.
func ClassifySensory(in SensoryInput) Verdict {
	in = in.Normalize()
	b := newVerdictBuilder()

	if in.Odor != OdorNormal {
		b.penalize(odorPenalty)
		b.contaminant(ContaminantOrganic)
		b.risk(RiskDigestive)

		switch in.Odor {
		case OdorFishy:
			b.contaminant(ContaminantIronManganese)
			b.recommend(RecommendAerationSand)
		case OdorPutrid:
			b.contaminant(ContaminantAnaerobic)
			b.act(ActionDoNotDrink)
			b.recommend(RecommendChlorineBoil)
		case OdorAmmonia:
			b.contaminant(ContaminantAmmonia)
			b.recommend(RecommendAerationChlor)
		default:
			b.contaminant(ContaminantChemical)
			b.recommend(RecommendLabAnalysis)
		}
	}

	if in.Taste != TasteNormal {
		b.penalize(tastePenalty)

		switch in.Taste {
		case TasteBitter:
			b.contaminant(ContaminantMineral)
			b.recommend(RecommendRO)
		case TasteSalty:
			b.contaminant(ContaminantSalt)
			b.risk(RiskHypertension)
			b.recommend(RecommendDistillation)
		case TasteMetallic:
			b.contaminant(ContaminantIronManganese)
			b.recommend(RecommendAerationFilt)
		case TasteHeavyMetal:
			b.contaminant(ContaminantHeavyMetals)
			b.risk(RiskHeavyMetal)
			b.act(ActionStopConsumption)
			b.recommend(RecommendIdentifyMetal)
		default:
			b.contaminant(ContaminantChemical)
			b.recommend(RecommendLabAnalysis)
		}
	}

	if in.Color != ColorClear {
		b.penalize(colorPenalty)

		switch in.Color {
		case ColorTurbid:
			b.contaminant(ContaminantSuspended)
			b.recommend(RecommendSedimentFilt)
		case ColorYellow:
			b.contaminant(ContaminantTanninOrIron)
			b.recommend(RecommendCarbonFilt)
		case ColorBrown:
			b.contaminant(ContaminantIronOrOrganics)
			b.act(ActionNoDrinkingUse)
			b.recommend(RecommendSedAerFilt)
		case ColorGreen:
			b.contaminant(ContaminantAlgaeOrCopper)
			b.risk(RiskDigestive)
			b.recommend(RecommendChlorineFilt)
		default:
			b.contaminant(ContaminantUnknown)
			b.recommend(RecommendLabAnalysis)
		}
	}

	level := b.level(sensoryTiers)
	if level != LevelSafe {
		b.recommend(RecommendBoil, RecommendAlternate)
	}
	if level == LevelHazardous {
		b.act(ActionReportToCenter, ActionFindSafeSource)
	}

	return b.build(level)
}
