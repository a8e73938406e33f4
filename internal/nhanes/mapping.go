// Package nhanes translates NHANES dataset field names into the engine's
// patient record keys. It is a static one-to-one dictionary with no
// transformation logic.
package nhanes

import (
	"github.com/t2dm-treatment-advisor/internal/domain"
)

// fieldToKey maps an NHANES export field name to the engine key.
var fieldToKey = map[string]string{
	"BMXBMI__response":       "bmi",
	"BMXWT__response":        "weight",
	"BPXDAR__response":       "bp_diastolic",
	"BPXSAR__response":       "bp_systolic",
	"DIQ010__questionnaire":  "diq010",
	"DIQ050__response":       "diq050",
	"DIQ070__questionnaire":  "diq070",
	"DIQ220__questionnaire":  "diq220",
	"HAD7S__questionnaire":   "had7s",
	"HSAGEU__demographics":   "age",
	"LBDHDD__response":       "lbdhdd",
	"LBDLDL__response":       "lbdldl",
	"LBDSCHSI__response":     "total_chol_si",
	"LBXGH__response":        "lbxgh",
	"LBXGLT__response":       "lbxglt",
	"LBXGLU__response":       "lbxglu",
	"LBXSBU__response":       "lbxsbu",
	"LBXSCR__response":       "lbxscr",
	"LBXSGL__response":       "lbxsgl",
	"MCQ100__questionnaire":  "mcq100",
	"MCQ160B__questionnaire": "mcq160b",
	"MCQ160C__questionnaire": "mcq160c",
	"MCQ160E__questionnaire": "mcq160e",
	"MCQ160F__questionnaire": "mcq160f",
	"MCQ160L__questionnaire": "mcq160l",
	"MCQ170L__questionnaire": "mcq170l",
	"RXDDRUG__medications":   "rxddrug",
	"URXUMS__response":       "urxums",
	"VNEGFR__response":       "vnegfr",
}

// MapRow converts an NHANES row into an engine patient record. Every mapped
// key is present in the output; fields absent from the row come through as
// nil ("unknown"). Unmapped input fields are dropped.
func MapRow(row map[string]interface{}) domain.PatientRecord {
	out := make(domain.PatientRecord, len(fieldToKey))
	for field, key := range fieldToKey {
		out[key] = row[field]
	}
	return out
}

// EngineKey returns the engine key for an NHANES field name.
func EngineKey(field string) (string, bool) {
	key, ok := fieldToKey[field]
	return key, ok
}
