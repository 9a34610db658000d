package models

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date form used by the form inputs and the dashboard.
const DateLayout = "2006-01-02"

// BloodPressure is a systolic/diastolic pair in mmHg.
type BloodPressure struct {
	Systolic  int `json:"systolic" bson:"systolic"`
	Diastolic int `json:"diastolic" bson:"diastolic"`
}

func (bp BloodPressure) String() string {
	return fmt.Sprintf("%d/%d", bp.Systolic, bp.Diastolic)
}

// HealthRecord is one measurement event.
type HealthRecord struct {
	ID              string        `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Date            time.Time     `json:"date" bson:"date" gorm:"index;not null"`
	BodyTemperature float64       `json:"bodyTemperature" bson:"bodyTemperature" gorm:"not null"`
	BloodPressure   BloodPressure `json:"bloodPressure" bson:"bloodPressure" gorm:"embedded;embeddedPrefix:bp_"`
	HeartRate       int           `json:"heartRate" bson:"heartRate" gorm:"not null"`
	CreatedAt       time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// DateString returns the measurement date as YYYY-MM-DD.
func (r HealthRecord) DateString() string {
	return r.Date.UTC().Format(DateLayout)
}

// BloodPressureInput mirrors BloodPressure with pointers so a missing
// value can be told apart from zero.
type BloodPressureInput struct {
	Systolic  *int `json:"systolic" binding:"required,gte=0"`
	Diastolic *int `json:"diastolic" binding:"required,gte=0"`
}

// HealthRecordInput is the body of POST and PUT /api/health-records.
type HealthRecordInput struct {
	Date            string              `json:"date" binding:"required"`
	BodyTemperature *float64            `json:"bodyTemperature" binding:"required,gte=0"`
	BloodPressure   *BloodPressureInput `json:"bloodPressure" binding:"required"`
	HeartRate       *int                `json:"heartRate" binding:"required,gte=0"`
}

// ParseDate accepts a bare calendar date or an RFC 3339 timestamp and
// returns UTC midnight of the calendar day as written, ignoring the offset.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{DateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
}

// ToRecord validates the date and copies the input onto a record.
// Binding has already checked presence and sign of the numeric fields.
func (in HealthRecordInput) ToRecord() (HealthRecord, error) {
	date, err := ParseDate(in.Date)
	if err != nil {
		return HealthRecord{}, err
	}
	if in.BodyTemperature == nil || in.HeartRate == nil || in.BloodPressure == nil ||
		in.BloodPressure.Systolic == nil || in.BloodPressure.Diastolic == nil {
		return HealthRecord{}, fmt.Errorf("all vitals are required")
	}
	rec := HealthRecord{
		Date:            date,
		BodyTemperature: *in.BodyTemperature,
		BloodPressure: BloodPressure{
			Systolic:  *in.BloodPressure.Systolic,
			Diastolic: *in.BloodPressure.Diastolic,
		},
		HeartRate: *in.HeartRate,
	}
	if rec.BodyTemperature < 0 || rec.HeartRate < 0 ||
		rec.BloodPressure.Systolic < 0 || rec.BloodPressure.Diastolic < 0 {
		return HealthRecord{}, fmt.Errorf("vitals must not be negative")
	}
	return rec, nil
}
