package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/camberhealth/clinsum/internal/platform/logger"
	"github.com/camberhealth/clinsum/internal/types"
)

type GenerationLogRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rec *types.GenerationLog) (*types.GenerationLog, error)
	ListByAuditID(ctx context.Context, tx *gorm.DB, auditID uuid.UUID) ([]*types.GenerationLog, error)
}

type generationLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGenerationLogRepo(db *gorm.DB, baseLog *logger.Logger) GenerationLogRepo {
	repoLog := baseLog.With("repo", "GenerationLogRepo")
	return &generationLogRepo{db: db, log: repoLog}
}

func (r *generationLogRepo) Create(ctx context.Context, tx *gorm.DB, rec *types.GenerationLog) (*types.GenerationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *generationLogRepo) ListByAuditID(ctx context.Context, tx *gorm.DB, auditID uuid.UUID) ([]*types.GenerationLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var recs []*types.GenerationLog
	if err := transaction.WithContext(ctx).Where("audit_id = ?", auditID).Order("created_at asc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
