package domain

import "strings"

// Literal disease labels that are not looked up in the catalog.
const (
	DiseaseBlueBaby     = "Blue Baby Syndrome (in infants)"
	DiseaseDigestive    = "digestive disturbance"
	DiseaseGIIrritation = "gastrointestinal irritation"
	DiseaseIronDisorder = "iron metabolism disorder"
	DiseaseNeurological = "neurological disorder (long-term)"
)

// diseaseRule maps a triggering measurement condition to either catalog
// keywords (substring match against disease names) or fixed labels. Exactly
// one of keywords or labels is set.
type diseaseRule struct {
	name     string
	trigger  func(values map[string]float64) bool
	keywords []string
	labels   []string
}

func above(param string, limit float64) func(map[string]float64) bool {
	key := normalizeParam(param)
	return func(values map[string]float64) bool {
		v, ok := values[key]
		return ok && v > limit
	}
}

func outside(param string, lo, hi float64) func(map[string]float64) bool {
	key := normalizeParam(param)
	return func(values map[string]float64) bool {
		v, ok := values[key]
		return ok && (v < lo || v > hi)
	}
}

var diseaseRules = []diseaseRule{
	{name: "coliform", trigger: above(ParamTotalColiform, 0), keywords: []string{"diarrhea", "typhoid", "cholera"}},
	{name: "e_coli", trigger: above(ParamEColi, 0), keywords: []string{"e. coli", "escherichia"}},
	{name: "nitrate", trigger: above(ParamNitrate, nitrateLimit), labels: []string{DiseaseBlueBaby}},
	{name: "ph", trigger: outside(ParamPH, 5, 9), labels: []string{DiseaseDigestive, DiseaseGIIrritation}},
	{name: "iron", trigger: above(ParamIron, 0.3), labels: []string{DiseaseIronDisorder}},
	{name: "manganese", trigger: above(ParamManganese, 0.1), labels: []string{DiseaseNeurological}},
}

// PredictDiseases lists candidate diseases for a lab result. Catalog-backed
// rules contribute every catalog name containing one of their keywords
// (case-insensitive); literal rules contribute their fixed labels. The result
// keeps rule order and has no duplicates.
func PredictDiseases(in LabInput, catalog []DiseaseRecord) []string {
	values := in.Values()
	var out []string

	for _, rule := range diseaseRules {
		if !rule.trigger(values) {
			continue
		}
		if len(rule.labels) > 0 {
			out = append(out, rule.labels...)
			continue
		}
		for _, d := range catalog {
			if nameMatches(d.Name, rule.keywords) {
				out = append(out, d.Name)
			}
		}
	}

	return dedupe(out)
}

func nameMatches(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
