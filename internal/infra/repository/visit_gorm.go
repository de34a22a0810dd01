package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type VisitGormRepository struct {
	db *gorm.DB
}

func NewVisitGormRepository(db *gorm.DB) *VisitGormRepository {
	return &VisitGormRepository{db: db}
}

// --------------------------------------------------
// Clinic / Patient
// --------------------------------------------------

func (r *VisitGormRepository) GetClinic(
	ctx context.Context,
	id uuid.UUID,
) (*models.Clinic, error) {

	var clinic models.Clinic
	if err := r.db.WithContext(ctx).First(&clinic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClinicNotFound
		}
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	return &clinic, nil
}

func (r *VisitGormRepository) GetPatient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Patient, error) {

	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPatientNotFound
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return &patient, nil
}

// --------------------------------------------------
// Visit
// --------------------------------------------------

func (r *VisitGormRepository) CreateVisit(
	ctx context.Context,
	v *models.Visit,
) error {

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		if IsExclusionConflict(err) {
			return domain.ErrTimeConflict
		}
		return fmt.Errorf("create visit: %w", err)
	}
	return nil
}

func (r *VisitGormRepository) ListBlockingVisitsForDay(
	ctx context.Context,
	practitionerID uuid.UUID,
	clinicID uuid.UUID,
	date string,
	excludeVisitID *uuid.UUID,
) ([]models.Visit, error) {

	q := r.db.WithContext(ctx).
		Where(
			"practitioner_id = ? AND clinic_id = ? AND scheduled_date = ? AND status NOT IN ?",
			practitionerID, clinicID, date, domain.NonBlockingStatuses(),
		)

	if excludeVisitID != nil {
		q = q.Where("id <> ?", *excludeVisitID)
	}

	var visits []models.Visit
	if err := q.Order("starts_at ASC").Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("list visits for day: %w", err)
	}
	return visits, nil
}

func (r *VisitGormRepository) GetVisit(
	ctx context.Context,
	id uuid.UUID,
) (*models.Visit, error) {

	var v models.Visit
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrVisitNotFound
		}
		return nil, fmt.Errorf("get visit: %w", err)
	}
	return &v, nil
}

func (r *VisitGormRepository) UpdateVisitIf(
	ctx context.Context,
	v *models.Visit,
	w domain.VisitWrite,
) (bool, error) {

	values, err := visitColumnValues(v, w.Columns)
	if err != nil {
		return false, err
	}
	if len(w.Vitals) > 0 {
		values["vital_signs"] = gorm.Expr(
			"COALESCE(vital_signs, '{}'::jsonb) || ?::jsonb",
			datatypes.JSONMap(w.Vitals),
		)
	}
	v.UpdatedAt = time.Now()
	values["updated_at"] = v.UpdatedAt

	q := r.db.WithContext(ctx).
		Model(&models.Visit{ID: v.ID}).
		Where("status IN ?", domain.StatusStrings(w.From))
	if w.NotCheckedIn {
		q = q.Where("check_in_time IS NULL")
	}

	res := q.Updates(values)
	if res.Error != nil {
		if IsExclusionConflict(res.Error) {
			return false, domain.ErrTimeConflict
		}
		return false, fmt.Errorf("update visit: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// visitColumnValues reads the named columns off v.
func visitColumnValues(v *models.Visit, columns []string) (map[string]any, error) {
	values := make(map[string]any, len(columns)+2)
	for _, col := range columns {
		switch col {
		case "status":
			values[col] = v.Status
		case "check_in_time":
			values[col] = v.CheckInTime
		case "start_time":
			values[col] = v.StartTime
		case "end_time":
			values[col] = v.EndTime
		case "cancellation_reason":
			values[col] = v.CancellationReason
		case "cancelled_by":
			values[col] = v.CancelledBy
		case "cancelled_at":
			values[col] = v.CancelledAt
		case "scheduled_date":
			values[col] = v.ScheduledDate
		case "scheduled_time":
			values[col] = v.ScheduledTime
		case "duration_minutes":
			values[col] = v.DurationMinutes
		case "starts_at":
			values[col] = v.StartsAt
		case "ends_at":
			values[col] = v.EndsAt
		case "visit_type":
			values[col] = v.VisitType
		case "chief_complaint":
			values[col] = v.ChiefComplaint
		default:
			return nil, fmt.Errorf("update visit: unknown column %q", col)
		}
	}
	return values, nil
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func (r *VisitGormRepository) ListVisitsForDay(
	ctx context.Context,
	practitionerID uuid.UUID,
	clinicID uuid.UUID,
	date string,
) ([]models.Visit, error) {

	var visits []models.Visit
	if err := r.db.WithContext(ctx).
		Where(
			"practitioner_id = ? AND clinic_id = ? AND scheduled_date = ?",
			practitionerID, clinicID, date,
		).
		Order("starts_at ASC").
		Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("list agenda: %w", err)
	}
	return visits, nil
}

// Compile-time check
var _ domain.Repository = (*VisitGormRepository)(nil)
