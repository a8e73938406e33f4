package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/t2dm-treatment-advisor/internal/domain"
)

func TestFirstNumber_PreferenceOrder(t *testing.T) {
	p := domain.PatientRecord{
		"lbxsgl": "",
		"lbxglu": "140",
		"lbxglt": "200",
	}

	got, ok := glucose(p)
	assert.True(t, ok)
	assert.Equal(t, 140.0, got, "first key that parses wins, not the last")
}

func TestFirstNumber_ZeroDoesNotFallThrough(t *testing.T) {
	p := domain.PatientRecord{
		"urxums": 0,
		"urxuma": "45",
	}

	got, ok := urineAlbumin(p)
	assert.True(t, ok)
	assert.Equal(t, 0.0, got, "a stored zero is a value, not an unknown")
}

func TestFirstNumber_AllMissing(t *testing.T) {
	_, ok := egfr(domain.PatientRecord{})
	assert.False(t, ok)

	_, ok = a1c(domain.PatientRecord{"lbxgh": "not-a-number"})
	assert.False(t, ok)
}

func TestHasDiabetes(t *testing.T) {
	assert.True(t, hasDiabetes(domain.PatientRecord{"diq010": 1}))
	assert.True(t, hasDiabetes(domain.PatientRecord{"diq010": "Yes"}))
	assert.False(t, hasDiabetes(domain.PatientRecord{"diq010": 0}))
	assert.False(t, hasDiabetes(domain.PatientRecord{}))
}

func TestOnMedication(t *testing.T) {
	tests := []struct {
		name string
		p    domain.PatientRecord
		want bool
	}{
		{
			name: "metformin in list",
			p:    domain.PatientRecord{"rxddrug": "metformin, lisinopril"},
			want: true,
		},
		{
			name: "case insensitive",
			p:    domain.PatientRecord{"rxddrug": "METFORMIN 500MG"},
			want: true,
		},
		{
			name: "absent from list",
			p:    domain.PatientRecord{"rxddrug": "liraglutide"},
			want: false,
		},
		{
			name: "missing field",
			p:    domain.PatientRecord{},
			want: false,
		},
		{
			name: "non-string field",
			p:    domain.PatientRecord{"rxddrug": 12},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, onMetformin(tt.p))
		})
	}
}

func TestOnInsulin(t *testing.T) {
	assert.True(t, onInsulin(domain.PatientRecord{"diq050": "1"}))
	assert.False(t, onInsulin(domain.PatientRecord{"diq050": "no"}))
}
