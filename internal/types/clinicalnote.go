package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ClinicalNote struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuditID   uuid.UUID      `gorm:"type:uuid;index" json:"audit_id"`
	PatientID string         `gorm:"column:patient_id;index;not null" json:"patient_id"`
	NoteType  string         `gorm:"column:note_type;not null" json:"note_type"`
	NoteText  string         `gorm:"column:note_text;not null" json:"-"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (ClinicalNote) TableName() string {
	return "clinical_note"
}

func (n *ClinicalNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
