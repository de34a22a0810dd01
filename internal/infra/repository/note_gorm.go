package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/note"
	visitdomain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/visit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type NoteGormRepository struct {
	db *gorm.DB
}

func NewNoteGormRepository(db *gorm.DB) *NoteGormRepository {
	return &NoteGormRepository{db: db}
}

func (r *NoteGormRepository) GetVisit(
	ctx context.Context,
	id uuid.UUID,
) (*models.Visit, error) {

	var v models.Visit
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, visitdomain.ErrVisitNotFound
		}
		return nil, fmt.Errorf("get visit: %w", err)
	}
	return &v, nil
}

func (r *NoteGormRepository) CreateNote(
	ctx context.Context,
	n *models.Note,
) error {

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}

	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		if IsUniqueViolation(err) {
			return domain.ErrNoteAlreadyExists
		}
		return fmt.Errorf("create note: %w", err)
	}
	return nil
}

func (r *NoteGormRepository) GetNote(
	ctx context.Context,
	id uuid.UUID,
) (*models.Note, error) {

	var n models.Note
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}
	return &n, nil
}

func (r *NoteGormRepository) GetNoteByVisit(
	ctx context.Context,
	visitID uuid.UUID,
) (*models.Note, error) {

	var n models.Note
	if err := r.db.WithContext(ctx).First(&n, "visit_id = ?", visitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note by visit: %w", err)
	}
	return &n, nil
}

func (r *NoteGormRepository) UpdateNoteIfUnsigned(
	ctx context.Context,
	n *models.Note,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(n).
		Where("is_signed = ?", false).
		Select("*").
		Omit("id", "visit_id", "created_by", "created_at").
		Updates(n)

	if res.Error != nil {
		return false, fmt.Errorf("update note: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Membership
// --------------------------------------------------

func (r *NoteGormRepository) IsActiveMember(
	ctx context.Context,
	practitionerID uuid.UUID,
	clinicID uuid.UUID,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PractitionerAssignment{}).
		Where(
			"practitioner_id = ? AND clinic_id = ? AND active = ?",
			practitionerID, clinicID, true,
		).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check clinic membership: %w", err)
	}
	return count > 0, nil
}

func (r *NoteGormRepository) ListAssignments(
	ctx context.Context,
	practitionerID uuid.UUID,
) ([]models.PractitionerAssignment, error) {

	var out []models.PractitionerAssignment
	if err := r.db.WithContext(ctx).
		Where("practitioner_id = ?", practitionerID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return out, nil
}

// Compile-time checks
var (
	_ domain.Repository = (*NoteGormRepository)(nil)
	_ domain.Membership = (*NoteGormRepository)(nil)
)
