package engine

import (
	"strings"

	"github.com/t2dm-treatment-advisor/internal/domain"
)

// Derived accessors over a patient record. Each numeric accessor probes one
// or more alternate source keys in a fixed preference order and returns the
// first value that parses to a number. All of these are total: they never
// panic and never mutate the record.

// firstNumber returns the first of the given keys whose value parses.
func firstNumber(p domain.PatientRecord, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := ParseNumber(p[k]); ok {
			return v, true
		}
	}
	return 0, false
}

// a1c returns the glycated hemoglobin percentage (HbA1c).
func a1c(p domain.PatientRecord) (float64, bool) {
	return firstNumber(p, "lbxgh")
}

// glucose returns a plasma glucose reading in mg/dL, preferring the serum
// value over fasting and OGTT variants.
func glucose(p domain.PatientRecord) (float64, bool) {
	return firstNumber(p, "lbxsgl", "lbxglu", "lbxglt")
}

// egfr returns the estimated glomerular filtration rate (mL/min/1.73m²).
func egfr(p domain.PatientRecord) (float64, bool) {
	return firstNumber(p, "vnegfr")
}

// urineAlbumin returns urine albumin in mg/L.
func urineAlbumin(p domain.PatientRecord) (float64, bool) {
	return firstNumber(p, "urxums", "urxuma")
}

// bmi returns the body mass index in kg/m².
func bmi(p domain.PatientRecord) (float64, bool) {
	return firstNumber(p, "bmi")
}

// hasDiabetes reports a diagnosed-diabetes flag (DIQ010).
func hasDiabetes(p domain.PatientRecord) bool {
	return TruthyFlag(p["diq010"])
}

// onInsulin reports current insulin use (DIQ050).
func onInsulin(p domain.PatientRecord) bool {
	return TruthyFlag(p["diq050"])
}

// onMedication reports whether the free-text medication list (RXDDRUG)
// mentions the given drug name, case-insensitively.
func onMedication(p domain.PatientRecord, drug string) bool {
	s, ok := p["rxddrug"].(string)
	if !ok {
		return false
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(drug))
}

// onMetformin reports current metformin use.
func onMetformin(p domain.PatientRecord) bool {
	return onMedication(p, "metformin")
}
