package audit

import (
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Logger persists audit events. Without a database it only writes them
// to the application log.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(
	clinicID uuid.UUID,
	userID *uuid.UUID,
	action string,
	entity string,
	entityID *uuid.UUID,
	metadata any,
) error {

	var metaJSON string
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metaJSON = string(b)
		}
	}

	if l.db == nil {
		ev := log.Info().
			Str("audit_action", action).
			Str("entity", entity).
			Str("clinic_id", clinicID.String())
		if entityID != nil {
			ev = ev.Str("entity_id", entityID.String())
		}
		if userID != nil {
			ev = ev.Str("user_id", userID.String())
		}
		if metaJSON != "" {
			ev = ev.RawJSON("metadata", []byte(metaJSON))
		}
		ev.Msg("audit")
		return nil
	}

	entry := models.AuditLog{
		ClinicID: clinicID,
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Metadata: metaJSON,
	}

	return l.db.Create(&entry).Error
}
