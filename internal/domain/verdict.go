package domain

import (
	"fmt"
	"strings"
)

// SafetyLevel is the four-tier water safety verdict, ordered safe < caution < unsafe < hazardous.
type SafetyLevel string

const (
	LevelSafe      SafetyLevel = "safe"
	LevelCaution   SafetyLevel = "caution"
	LevelUnsafe    SafetyLevel = "unsafe"
	LevelHazardous SafetyLevel = "hazardous"
)

// sourceTerms maps the terms stored by the reporting platform to levels.
var sourceTerms = map[string]SafetyLevel{
	"aman":    LevelSafe,
	"waspada": LevelCaution,
	"rawan":   LevelUnsafe,
	"bahaya":  LevelHazardous,
}

// Rank returns the position of the level in the severity order (0 = safe).
// Unknown levels rank -1.
func (l SafetyLevel) Rank() int {
	switch l {
	case LevelSafe:
		return 0
	case LevelCaution:
		return 1
	case LevelUnsafe:
		return 2
	case LevelHazardous:
		return 3
	default:
		return -1
	}
}

// Label is the upper-case display form used in reports.
func (l SafetyLevel) Label() string {
	return strings.ToUpper(string(l))
}

// ParseSafetyLevel accepts both the English level names and the platform's
// source terms (aman, waspada, rawan, bahaya), case-insensitively.
func ParseSafetyLevel(s string) (SafetyLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if lvl, ok := sourceTerms[s]; ok {
		return lvl, nil
	}
	lvl := SafetyLevel(s)
	if lvl.Rank() < 0 {
		return "", fmt.Errorf("unknown safety level %q", s)
	}
	return lvl, nil
}

// Worse returns the more severe of two levels.
func Worse(a, b SafetyLevel) SafetyLevel {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Verdict is the result of a classification. It is returned by value and its
// lists are never shared with the classifier after return.
type Verdict struct {
	SafetyLevel      SafetyLevel `json:"safety_level"`
	Score            int         `json:"score"`
	Contaminants     []string    `json:"contaminants"`
	Recommendations  []string    `json:"recommendations"`
	HealthRisks      []string    `json:"health_risks"`
	ImmediateActions []string    `json:"immediate_actions"`
}

// tierThresholds holds the minimum score for safe, caution and unsafe.
// Anything below the last threshold is hazardous.
type tierThresholds struct {
	safe, caution, unsafe int
}

var (
	sensoryTiers = tierThresholds{safe: 80, caution: 60, unsafe: 40}
	labTiers     = tierThresholds{safe: 85, caution: 70, unsafe: 50}
)

func (t tierThresholds) level(score int) SafetyLevel {
	switch {
	case score >= t.safe:
		return LevelSafe
	case score >= t.caution:
		return LevelCaution
	case score >= t.unsafe:
		return LevelUnsafe
	default:
		return LevelHazardous
	}
}

// verdictBuilder accumulates findings while rules are evaluated.
type verdictBuilder struct {
	score            int
	contaminants     []string
	recommendations  []string
	healthRisks      []string
	immediateActions []string
}

func newVerdictBuilder() *verdictBuilder {
	return &verdictBuilder{score: 100}
}

func (b *verdictBuilder) penalize(points int) { b.score -= points }
func (b *verdictBuilder) contaminant(s ...string) { b.contaminants = append(b.contaminants, s...) }
func (b *verdictBuilder) recommend(s ...string) { b.recommendations = append(b.recommendations, s...) }
func (b *verdictBuilder) risk(s ...string) { b.healthRisks = append(b.healthRisks, s...) }
func (b *verdictBuilder) act(s ...string) { b.immediateActions = append(b.immediateActions, s...) }
func (b *verdictBuilder) hasContaminants() bool { return len(b.contaminants) > 0 }
func (b *verdictBuilder) level(t tierThresholds) SafetyLevel { return t.level(b.score) }

// build deduplicates every list and freezes the verdict.
func (b *verdictBuilder) build(level SafetyLevel) Verdict {
	return Verdict{
		SafetyLevel:      level,
		Score:            b.score,
		Contaminants:     dedupe(b.contaminants),
		Recommendations:  dedupe(b.recommendations),
		HealthRisks:      dedupe(b.healthRisks),
		ImmediateActions: dedupe(b.immediateActions),
	}
}

// dedupe removes repeated entries, keeping the first occurrence. The result is
// always a fresh non-nil slice.
func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Clone returns a copy of v whose lists do not share storage with v.
func (v Verdict) Clone() Verdict {
	v.Contaminants = append([]string{}, v.Contaminants...)
	v.Recommendations = append([]string{}, v.Recommendations...)
	v.HealthRisks = append([]string{}, v.HealthRisks...)
	v.ImmediateActions = append([]string{}, v.ImmediateActions...)
	return v
}
