package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/types"
)

type ClinicalNoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, note *types.ClinicalNote) (*types.ClinicalNote, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClinicalNote, error)
}

type clinicalNoteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClinicalNoteRepo(db *gorm.DB, baseLog *logger.Logger) ClinicalNoteRepo {
	repoLog := baseLog.With("repo", "ClinicalNoteRepo")
	return &clinicalNoteRepo{db: db, log: repoLog}
}

func (r *clinicalNoteRepo) Create(ctx context.Context, tx *gorm.DB, note *types.ClinicalNote) (*types.ClinicalNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(note).Error; err != nil {
		return nil, err
	}
	return note, nil
}

func (r *clinicalNoteRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ClinicalNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var note types.ClinicalNote
	if err := transaction.WithContext(ctx).First(&note, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &note, nil
}
