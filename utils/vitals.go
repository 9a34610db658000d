package utils

import (
	"fmt"

	"healthtracker/models"
)

// WarningSeverity categorizes how far outside its range a vital is.
type WarningSeverity string

const (
	Low  WarningSeverity = "low"
	High WarningSeverity = "high"
)

// Warning is a structured out-of-range finding for display.
type Warning struct {
	Code     string          `json:"code"`
	Severity WarningSeverity `json:"severity"`
	Message  string          `json:"message"`
	Metric   string          `json:"metric"`
	Value    float64         `json:"value"`
	Min      float64         `json:"min"`
	Max      float64         `json:"max"`
}

// Range is an inclusive normal range.
type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool { return v >= r.Min && v <= r.Max }

// Adult resting reference ranges used for highlighting.
var (
	TemperatureRange = Range{Min: 36.5, Max: 37.5}
	SystolicRange    = Range{Min: 90, Max: 120}
	DiastolicRange   = Range{Min: 60, Max: 80}
	HeartRateRange   = Range{Min: 60, Max: 100}
)

// Assessment says which cells of a record fall outside their range.
// It drives styling only.
type Assessment struct {
	Temperature   bool      `json:"temperature"`
	BloodPressure bool      `json:"bloodPressure"`
	HeartRate     bool      `json:"heartRate"`
	Warnings      []Warning `json:"warnings,omitempty"`
}

// Any reports whether at least one vital is out of range.
func (a Assessment) Any() bool {
	return a.Temperature || a.BloodPressure || a.HeartRate
}

// AssessVitals flags the out-of-range vitals of rec.
func AssessVitals(rec models.HealthRecord) Assessment {
	var a Assessment

	if w, ok := check("body_temperature", "Body temperature", "°C", rec.BodyTemperature, TemperatureRange); !ok {
		a.Temperature = true
		a.Warnings = append(a.Warnings, w)
	}
	if w, ok := check("systolic", "Systolic pressure", "mmHg", float64(rec.BloodPressure.Systolic), SystolicRange); !ok {
		a.BloodPressure = true
		a.Warnings = append(a.Warnings, w)
	}
	if w, ok := check("diastolic", "Diastolic pressure", "mmHg", float64(rec.BloodPressure.Diastolic), DiastolicRange); !ok {
		a.BloodPressure = true
		a.Warnings = append(a.Warnings, w)
	}
	if w, ok := check("heart_rate", "Heart rate", "bpm", float64(rec.HeartRate), HeartRateRange); !ok {
		a.HeartRate = true
		a.Warnings = append(a.Warnings, w)
	}
	return a
}

func check(metric, label, unit string, v float64, r Range) (Warning, bool) {
	if r.contains(v) {
		return Warning{}, true
	}
	sev, word := High, "above"
	if v < r.Min {
		sev, word = Low, "below"
	}
	return Warning{
		Code:     metric + "_" + string(sev),
		Severity: sev,
		Message:  fmt.Sprintf("%s %g %s is %s the normal range (%g–%g).", label, v, unit, word, r.Min, r.Max),
		Metric:   metric,
		Value:    v,
		Min:      r.Min,
		Max:      r.Max,
	}, false
}
