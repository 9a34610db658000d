package services

import (
	"healthtracker/models"
	"healthtracker/utils"

	"go.uber.org/zap"
)

// EventVitalsAlert follows a created or updated event when the record has
// readings outside the normal ranges.
const EventVitalsAlert = "vitals.alert"

// emitAlert is safe to call anywhere; normal records are ignored.
func (s *HealthRecordService) emitAlert(rec *models.HealthRecord) {
	a := utils.AssessVitals(*rec)
	if !a.Any() {
		return
	}

	codes := make([]string, 0, len(a.Warnings))
	for _, w := range a.Warnings {
		codes = append(codes, w.Code)
	}
	s.log.Warn("vitals out of range", zap.String("id", rec.ID), zap.String("date", rec.DateString()), zap.Strings("warnings", codes))

	s.emit(EventVitalsAlert, map[string]any{
		"id":       rec.ID,
		"warnings": a.Warnings,
	})
}
