// Package domain implements the water-safety scoring engine for resident
// water-quality reports.
//
// # Inputs
//
// Residents describe water by three categorical observations:
//
//	odor:  normal | fishy (or earthy) | putrid | ammonia | anything else
//	taste: normal | bitter | salty | metallic | heavy_metal | anything else
//	color: clear | turbid | yellow | brown | green | anything else
//
// Health-center staff enter laboratory measurements keyed by parameter:
//
//	turbidity (NTU), ph, iron (mg/L), manganese (mg/L), nitrate (mg/L),
//	total_coliform (CFU/100 mL), e_coli (CFU/100 mL)
//
// Parameter names are matched case-insensitively with "_", "-", "." and
// spaces treated alike, so "Total Coliform" matches "total_coliform".
//
// # Scoring
//
// Both classifiers start at 100 and subtract penalties.
//
//	Sensory: odor -30, taste -25, color -20
//	  >=80 safe | >=60 caution | >=40 unsafe | else hazardous
//	Lab: danger band -40, warning band -20
//	  >=85 safe | >=70 caution | >=50 unsafe | else hazardous
//
// The lab thresholds are stricter than the sensory ones. Both sets are kept
// as-is; they are not derived from each other.
//
// Lab scores are not clamped at zero. Several danger-band hits can produce a
// negative score, which maps to hazardous like any score below 50.
//
// # Source Terms
//
// The reporting platform stores levels as aman, waspada, rawan and bahaya.
// [ParseSafetyLevel] accepts those terms alongside the English names.
//
// # Disease Prediction
//
// [PredictDiseases] uses a tagged rule table. Coliform and E. coli rules pick
// matching names from the disease catalog; nitrate, pH, iron and manganese
// rules emit fixed labels that do not come from the catalog.
package domain
