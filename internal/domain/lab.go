package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Canonical laboratory parameter keys, in evaluation order.
const (
	ParamTurbidity     = "turbidity"
	ParamPH            = "ph"
	ParamIron          = "iron"
	ParamManganese     = "manganese"
	ParamNitrate       = "nitrate"
	ParamTotalColiform = "total_coliform"
	ParamEColi         = "e_coli"
)

var canonicalOrder = []string{
	ParamTurbidity, ParamPH, ParamIron, ParamManganese, ParamNitrate, ParamTotalColiform, ParamEColi,
}

// paramAliases folds alternative spellings onto normalized canonical names.
var paramAliases = map[string]string{
	"coliform": "total coliform",
	"ecoli":    "e coli",
}

// MaxTreatmentSuggestions caps how many catalog treatments are attached to a
// lab verdict. The catalog order is used as-is; entries are not ranked.
const MaxTreatmentSuggestions = 3

// Findings emitted by the lab rules.
const (
	RecommendColiformTreatment = "chlorination or boiling mandatory"
	ActionUntreatedUnsafe      = "water unsafe to drink without treatment"
	RiskBlueBaby               = "Blue Baby Syndrome risk in infants"
	RecommendROSystem          = "use reverse-osmosis system"
)

const (
	dangerPenalty  = 40
	warningPenalty = 20

	// nitrateLimit is the mg/L level above which infants are at risk.
	nitrateLimit = 50.0
)

// LabInput is a partial set of laboratory measurements keyed by parameter name.
// Values may be numbers or numeric strings; nil and non-numeric values are
// treated as absent.
type LabInput map[string]any

// TreatmentSource returns the treatment catalog. It is only called when at
// least one contaminant was flagged.
type TreatmentSource func() []TreatmentRecommendation

// normalizeParam folds case, separators and dots so "Total_Coliform",
// "total coliform" and "TOTAL-COLIFORM" compare equal.
func normalizeParam(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if alias, ok := paramAliases[name]; ok {
		return alias
	}
	return name
}

// Values returns every present numeric measurement keyed by normalized name.
func (in LabInput) Values() map[string]float64 {
	out := make(map[string]float64, len(in))
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := toFloat(in[k])
		if !ok {
			continue
		}
		name := normalizeParam(k)
		if _, dup := out[name]; dup {
			continue
		}
		out[name] = v
	}
	return out
}

// Value looks up a single measurement by any spelling of its name.
func (in LabInput) Value(param string) (float64, bool) {
	v, ok := in.Values()[normalizeParam(param)]
	return v, ok
}

// orderedParams lists the present parameters: canonical ones first, the rest sorted.
func orderedParams(values map[string]float64) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, p := range canonicalOrder {
		n := normalizeParam(p)
		if _, ok := values[n]; ok {
			out = append(out, n)
			seen[n] = true
		}
	}
	var rest []string
	for n := range values {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// toFloat coerces a measurement to float64. Any integer or float kind, a
// non-nil pointer to one, a json.Number and a numeric string are accepted.
// Anything else, or a value that is not finite, reports false.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case nil:
		return 0, false
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				return 0, false
			}
			return toFloat(rv.Elem().Interface())
		}
		switch {
		case rv.CanInt():
			f = float64(rv.Int())
		case rv.CanUint():
			f = float64(rv.Uint())
		case rv.CanFloat():
			f = rv.Float()
		default:
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func inBand(v float64, lo, hi *float64) bool {
	return lo != nil && hi != nil && v >= *lo && v <= *hi
}

// indexStandards keys standards by normalized parameter name; the first entry wins.
func indexStandards(standards []ParameterStandard) map[string]ParameterStandard {
	idx := make(map[string]ParameterStandard, len(standards))
	for _, s := range standards {
		n := normalizeParam(s.Parameter)
		if _, ok := idx[n]; !ok {
			idx[n] = s
		}
	}
	return idx
}

// ClassifyLab scores laboratory measurements against parameter standards.
//
// It fails with a *ConfigurationError when standards is empty. Fields with no
// matching standard are skipped. The score is deliberately not clamped: many
// simultaneous danger-band hits can push it below zero, which still maps to
// hazardous.
func ClassifyLab(in LabInput, standards []ParameterStandard, treatments TreatmentSource) (Verdict, error) {
	if len(standards) == 0 {
		return Verdict{}, &ConfigurationError{Reason: "cannot score lab results", Err: ErrMissingStandards}
	}

	values := in.Values()
	index := indexStandards(standards)
	b := newVerdictBuilder()

	for _, name := range orderedParams(values) {
		std, ok := index[name]
		if !ok {
			continue
		}
		v := values[name]
		label := std.Parameter

		switch {
		case inBand(v, std.DangerMin, std.DangerMax):
			b.penalize(dangerPenalty)
			b.contaminant(label)
			impact := strings.TrimSpace(std.HealthImpact)
			if impact == "" {
				impact = fmt.Sprintf("elevated %s may harm health", label)
			}
			b.risk(impact)
			b.act(fmt.Sprintf("%s at hazardous level", label))
		case inBand(v, std.WarningMin, std.WarningMax):
			b.penalize(warningPenalty)
			b.contaminant(label)
			b.recommend(fmt.Sprintf("improvement needed for %s", label))
		}
	}

	if b.hasContaminants() && treatments != nil {
		catalog := treatments()
		for i := 0; i < len(catalog) && i < MaxTreatmentSuggestions; i++ {
			b.recommend(fmt.Sprintf("%s: %s", catalog[i].Method, catalog[i].Description))
		}
	}

	if v, ok := values[normalizeParam(ParamTotalColiform)]; ok && v > 0 {
		b.recommend(RecommendColiformTreatment)
		b.act(ActionUntreatedUnsafe)
	}
	if v, ok := values[normalizeParam(ParamNitrate)]; ok && v > nitrateLimit {
		b.risk(RiskBlueBaby)
		b.recommend(RecommendROSystem)
	}

	return b.build(b.level(labTiers)), nil
}
