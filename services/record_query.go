package services

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"healthtracker/models"
)

// Field selects which vital a search term or sort applies to.
type Field string

const (
	FieldDate            Field = "date"
	FieldHeartRate       Field = "heartRate"
	FieldBodyTemperature Field = "bodyTemperature"
	FieldBloodPressure   Field = "bloodPressure"
)

// Fields lists the selectable fields in UI order.
var Fields = []Field{FieldDate, FieldHeartRate, FieldBodyTemperature, FieldBloodPressure}

// ParseField maps a query value onto a Field, falling back to date.
func ParseField(s string) Field {
	for _, f := range Fields {
		if string(f) == s {
			return f
		}
	}
	return FieldDate
}

// FieldString is the text a search term is matched against.
func FieldString(rec models.HealthRecord, f Field) string {
	switch f {
	case FieldHeartRate:
		return strconv.Itoa(rec.HeartRate)
	case FieldBodyTemperature:
		return strconv.FormatFloat(rec.BodyTemperature, 'f', -1, 64)
	case FieldBloodPressure:
		return rec.BloodPressure.String()
	default:
		return rec.DateString()
	}
}

// SearchRecords returns the records whose selected field contains term.
// Matching is a case-sensitive substring test; an empty term matches all.
func SearchRecords(recs []models.HealthRecord, term string, f Field) []models.HealthRecord {
	if term == "" {
		return recs
	}
	out := make([]models.HealthRecord, 0, len(recs))
	for _, rec := range recs {
		if strings.Contains(FieldString(rec, f), term) {
			out = append(out, rec)
		}
	}
	return out
}

func compareBy(f Field) func(a, b models.HealthRecord) int {
	switch f {
	case FieldHeartRate:
		return func(a, b models.HealthRecord) int { return cmp.Compare(a.HeartRate, b.HeartRate) }
	case FieldBodyTemperature:
		return func(a, b models.HealthRecord) int { return cmp.Compare(a.BodyTemperature, b.BodyTemperature) }
	case FieldBloodPressure:
		return func(a, b models.HealthRecord) int {
			if c := cmp.Compare(a.BloodPressure.Systolic, b.BloodPressure.Systolic); c != 0 {
				return c
			}
			return cmp.Compare(a.BloodPressure.Diastolic, b.BloodPressure.Diastolic)
		}
	default:
		return func(a, b models.HealthRecord) int { return a.Date.Compare(b.Date) }
	}
}

// SortRecords returns a stably sorted copy of recs.
func SortRecords(recs []models.HealthRecord, f Field, ascending bool) []models.HealthRecord {
	out := slices.Clone(recs)
	less := compareBy(f)
	slices.SortStableFunc(out, func(a, b models.HealthRecord) int {
		if ascending {
			return less(a, b)
		}
		return less(b, a)
	})
	return out
}

// SortState is the dashboard's sort toggle. The direction flips on every
// Toggle; the zero value sorts ascending on the first call.
type SortState struct {
	Field     Field
	Ascending bool
}

// Toggle selects f and flips the direction.
func (s *SortState) Toggle(f Field) {
	s.Field = f
	s.Ascending = !s.Ascending
}

// Apply sorts recs by the current state.
func (s SortState) Apply(recs []models.HealthRecord) []models.HealthRecord {
	return SortRecords(recs, s.Field, s.Ascending)
}

// Order is the query-string form of the direction.
func (s SortState) Order() string {
	if s.Ascending {
		return "asc"
	}
	return "desc"
}
