package nhanes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapRow(t *testing.T) {
	row := map[string]interface{}{
		"DIQ010__questionnaire": 1,
		"LBXGH__response":       "7.5",
		"VNEGFR__response":      55.0,
		"UNMAPPED_FIELD":        "dropped",
	}

	patient := MapRow(row)

	assert.Equal(t, 1, patient["diq010"])
	assert.Equal(t, "7.5", patient["lbxgh"])
	assert.Equal(t, 55.0, patient["vnegfr"])
	assert.NotContains(t, patient, "UNMAPPED_FIELD")

	// Unpopulated mapped fields come through as explicit unknowns.
	v, present := patient["bmi"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestEngineKey(t *testing.T) {
	key, ok := EngineKey("RXDDRUG__medications")
	assert.True(t, ok)
	assert.Equal(t, "rxddrug", key)

	_, ok = EngineKey("NOPE")
	assert.False(t, ok)
}
