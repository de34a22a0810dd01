package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	}
	if cfg.IsProduction() {
		gcfg.Logger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// schemaStatements run after AutoMigrate. Each is idempotent.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	// At most one live visit per practitioner and clinic for any instant.
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'visits_no_overlap'
		) THEN
			ALTER TABLE visits
				ADD CONSTRAINT visits_no_overlap
				EXCLUDE USING gist (
					practitioner_id WITH =,
					clinic_id WITH =,
					tsrange(starts_at, ends_at, '[)') WITH &&
				)
				WHERE (status NOT IN ('CANCELLED', 'NO_SHOW'));
		END IF;
	END
	$$`,

	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'visits_positive_duration'
		) THEN
			ALTER TABLE visits
				ADD CONSTRAINT visits_positive_duration CHECK (duration_minutes > 0);
		END IF;
	END
	$$`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_notes_visit_id ON notes (visit_id)`,
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Clinic{},
		&models.PractitionerAssignment{},
		&models.Patient{},
		&models.Visit{},
		&models.Note{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, stmt := range schemaStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	if err := backfillClinicTimezones(db); err != nil {
		return err
	}

	log.Info().Msg("database schema up to date")
	return nil
}

// backfillClinicTimezones gives clinics without a zone the UTC default.
func backfillClinicTimezones(db *gorm.DB) error {
	res := db.Exec(`
		UPDATE clinics
		SET timezone = 'UTC'
		WHERE timezone IS NULL OR timezone = ''
	`)
	if res.Error != nil {
		return fmt.Errorf("backfill clinic timezones: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Info().Int64("clinics", res.RowsAffected).Msg("clinic timezones defaulted to UTC")
	}
	return nil
}
