package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySensory_AllNormal(t *testing.T) {
	v := ClassifySensory(SensoryInput{Odor: OdorNormal, Taste: TasteNormal, Color: ColorClear})

	assert.Equal(t, 100, v.Score)
	assert.Equal(t, LevelSafe, v.SafetyLevel)
	assert.Empty(t, v.Contaminants)
	assert.Empty(t, v.Recommendations)
	assert.Empty(t, v.HealthRisks)
	assert.Empty(t, v.ImmediateActions)
}

func TestClassifySensory_PutridOdor(t *testing.T) {
	v := ClassifySensory(SensoryInput{Odor: OdorPutrid, Taste: TasteNormal, Color: ColorClear})

	assert.Equal(t, 70, v.Score)
	assert.Equal(t, LevelCaution, v.SafetyLevel)
	assert.Equal(t, []string{ContaminantOrganic, ContaminantAnaerobic}, v.Contaminants)
	assert.Equal(t, []string{RiskDigestive}, v.HealthRisks)
	assert.Equal(t, []string{ActionDoNotDrink}, v.ImmediateActions)
	assert.Equal(t, []string{RecommendChlorineBoil, RecommendBoil, RecommendAlternate}, v.Recommendations)
}

func TestClassifySensory_OtherBitterTurbid(t *testing.T) {
	v := ClassifySensory(SensoryInput{Odor: OdorOther, Taste: TasteBitter, Color: ColorTurbid})

	assert.Equal(t, 25, v.Score)
	assert.Equal(t, LevelHazardous, v.SafetyLevel)
	assert.Equal(t, []string{
		ContaminantOrganic, ContaminantChemical, ContaminantMineral, ContaminantSuspended,
	}, v.Contaminants)
	assert.Equal(t, []string{
		RecommendLabAnalysis, RecommendRO, RecommendSedimentFilt, RecommendBoil, RecommendAlternate,
	}, v.Recommendations)
	assert.Equal(t, []string{ActionReportToCenter, ActionFindSafeSource}, v.ImmediateActions)
}

func TestClassifySensory_Branches(t *testing.T) {
	tests := []struct {
		name        string
		in          SensoryInput
		score       int
		level       SafetyLevel
		contaminant string
		recommend   string
		risk        string
		action      string
	}{
		{"fishy odor", SensoryInput{OdorFishy, TasteNormal, ColorClear}, 70, LevelCaution, ContaminantIronManganese, RecommendAerationSand, RiskDigestive, ""},
		{"earthy alias", SensoryInput{"Earthy", TasteNormal, ColorClear}, 70, LevelCaution, ContaminantIronManganese, RecommendAerationSand, RiskDigestive, ""},
		{"ammonia odor", SensoryInput{OdorAmmonia, TasteNormal, ColorClear}, 70, LevelCaution, ContaminantAmmonia, RecommendAerationChlor, RiskDigestive, ""},
		{"unlisted odor", SensoryInput{"sulfur", TasteNormal, ColorClear}, 70, LevelCaution, ContaminantChemical, RecommendLabAnalysis, RiskDigestive, ""},
		{"bitter taste", SensoryInput{OdorNormal, TasteBitter, ColorClear}, 75, LevelCaution, ContaminantMineral, RecommendRO, "", ""},
		{"salty taste", SensoryInput{OdorNormal, TasteSalty, ColorClear}, 75, LevelCaution, ContaminantSalt, RecommendDistillation, RiskHypertension, ""},
		{"metallic taste", SensoryInput{OdorNormal, TasteMetallic, ColorClear}, 75, LevelCaution, ContaminantIronManganese, RecommendAerationFilt, "", ""},
		{"heavy metal taste", SensoryInput{OdorNormal, TasteHeavyMetal, ColorClear}, 75, LevelCaution, ContaminantHeavyMetals, RecommendIdentifyMetal, RiskHeavyMetal, ActionStopConsumption},
		{"unlisted taste", SensoryInput{OdorNormal, "sweet", ColorClear}, 75, LevelCaution, ContaminantChemical, RecommendLabAnalysis, "", ""},
		{"turbid color", SensoryInput{OdorNormal, TasteNormal, ColorTurbid}, 80, LevelSafe, ContaminantSuspended, RecommendSedimentFilt, "", ""},
		{"yellow color", SensoryInput{OdorNormal, TasteNormal, ColorYellow}, 80, LevelSafe, ContaminantTanninOrIron, RecommendCarbonFilt, "", ""},
		{"brown color", SensoryInput{OdorNormal, TasteNormal, ColorBrown}, 80, LevelSafe, ContaminantIronOrOrganics, RecommendSedAerFilt, "", ActionNoDrinkingUse},
		{"green color", SensoryInput{OdorNormal, TasteNormal, ColorGreen}, 80, LevelSafe, ContaminantAlgaeOrCopper, RecommendChlorineFilt, RiskDigestive, ""},
		{"unlisted color", SensoryInput{OdorNormal, TasteNormal, "purple"}, 80, LevelSafe, ContaminantUnknown, RecommendLabAnalysis, "", ""},
		{"odor and taste", SensoryInput{OdorPutrid, TasteSalty, ColorClear}, 45, LevelUnsafe, ContaminantSalt, RecommendChlorineBoil, RiskHypertension, ActionDoNotDrink},
		{"upper case with spaces", SensoryInput{" PUTRID ", "Normal", "CLEAR"}, 70, LevelCaution, ContaminantAnaerobic, RecommendChlorineBoil, RiskDigestive, ActionDoNotDrink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ClassifySensory(tt.in)

			assert.Equal(t, tt.score, v.Score)
			assert.Equal(t, tt.level, v.SafetyLevel)
			assert.Contains(t, v.Contaminants, tt.contaminant)
			assert.Contains(t, v.Recommendations, tt.recommend)
			if tt.risk != "" {
				assert.Contains(t, v.HealthRisks, tt.risk)
			}
			if tt.action != "" {
				assert.Contains(t, v.ImmediateActions, tt.action)
			}
		})
	}
}

func TestClassifySensory_SafeTierHasNoGenericAdvice(t *testing.T) {
	v := ClassifySensory(SensoryInput{OdorNormal, TasteNormal, ColorYellow})

	assert.Equal(t, LevelSafe, v.SafetyLevel)
	assert.NotContains(t, v.Recommendations, RecommendBoil)
	assert.NotContains(t, v.Recommendations, RecommendAlternate)
}

func TestClassifySensory_Deduplicates(t *testing.T) {
	t.Run("iron from odor and taste", func(t *testing.T) {
		v := ClassifySensory(SensoryInput{OdorFishy, TasteMetallic, ColorClear})
		assert.Equal(t, []string{ContaminantOrganic, ContaminantIronManganese}, v.Contaminants)
	})

	t.Run("every field unlisted", func(t *testing.T) {
		v := ClassifySensory(SensoryInput{"x", "y", "z"})
		assert.Equal(t, 25, v.Score)
		assert.Equal(t, []string{ContaminantOrganic, ContaminantChemical, ContaminantUnknown}, v.Contaminants)
		assert.Equal(t, []string{RecommendLabAnalysis, RecommendBoil, RecommendAlternate}, v.Recommendations)
	})

	t.Run("digestive risk from odor and green color", func(t *testing.T) {
		v := ClassifySensory(SensoryInput{OdorAmmonia, TasteNormal, ColorGreen})
		assert.Equal(t, []string{RiskDigestive}, v.HealthRisks)
	})
}

func TestClassifySensory_EmptyFieldsClassifyAsOther(t *testing.T) {
	v := ClassifySensory(SensoryInput{})

	assert.Equal(t, 25, v.Score)
	assert.Equal(t, LevelHazardous, v.SafetyLevel)
}

func TestClassifySensory_Deterministic(t *testing.T) {
	in := SensoryInput{OdorPutrid, TasteHeavyMetal, ColorBrown}
	first := ClassifySensory(in)
	for range 10 {
		assert.Equal(t, first, ClassifySensory(in))
	}
}

func TestSensoryTierBoundaries(t *testing.T) {
	tests := []struct {
		score int
		want  SafetyLevel
	}{
		{100, LevelSafe},
		{80, LevelSafe},
		{79, LevelCaution},
		{60, LevelCaution},
		{59, LevelUnsafe},
		{40, LevelUnsafe},
		{39, LevelHazardous},
		{0, LevelHazardous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sensoryTiers.level(tt.score), "score %d", tt.score)
	}
}

func TestSensoryInput_Missing(t *testing.T) {
	assert.Empty(t, SensoryInput{OdorNormal, TasteNormal, ColorClear}.Missing())
	assert.Equal(t, []string{"taste", "color"}, SensoryInput{Odor: OdorNormal, Taste: "  "}.Missing())
}
