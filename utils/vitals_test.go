package utils

import (
	"testing"
	"time"

	"healthtracker/models"

	"github.com/stretchr/testify/assert"
)

func record(temp float64, sys, dia, hr int) models.HealthRecord {
	return models.HealthRecord{
		Date:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		BodyTemperature: temp,
		BloodPressure:   models.BloodPressure{Systolic: sys, Diastolic: dia},
		HeartRate:       hr,
	}
}

func TestAssessVitals_FeverishRecordFlagsEveryCell(t *testing.T) {
	a := AssessVitals(record(38.2, 130, 85, 105))

	assert.True(t, a.Temperature)
	assert.True(t, a.BloodPressure)
	assert.True(t, a.HeartRate)
	assert.True(t, a.Any())
	assert.Len(t, a.Warnings, 4)
	assert.Equal(t, "body_temperature_high", a.Warnings[0].Code)
}

func TestAssessVitals_NormalRecord(t *testing.T) {
	a := AssessVitals(record(36.8, 115, 75, 72))

	assert.False(t, a.Any())
	assert.Empty(t, a.Warnings)
}

func TestAssessVitals_BoundsAreInclusive(t *testing.T) {
	assert.False(t, AssessVitals(record(36.5, 90, 60, 60)).Any())
	assert.False(t, AssessVitals(record(37.5, 120, 80, 100)).Any())
}

func TestAssessVitals_LowValues(t *testing.T) {
	a := AssessVitals(record(35.9, 100, 55, 48))

	assert.True(t, a.Temperature)
	assert.True(t, a.BloodPressure)
	assert.True(t, a.HeartRate)
	for _, w := range a.Warnings {
		assert.Equal(t, Low, w.Severity, w.Code)
	}
}
