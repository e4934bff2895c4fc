package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GenerationLog is the audit record for one LLM summarization attempt. Prompt
// version and content hash are recorded so any summary can be traced back to
// the exact prompt text that produced it.
type GenerationLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuditID       uuid.UUID      `gorm:"type:uuid;index" json:"audit_id"`
	NoteID        *uuid.UUID     `gorm:"type:uuid;index" json:"note_id,omitempty"`
	Task          string         `gorm:"column:task;not null;index" json:"task"`
	PromptVersion string         `gorm:"column:prompt_version;not null" json:"prompt_version"`
	PromptHash    string         `gorm:"column:prompt_hash;not null" json:"prompt_hash"`
	Model         string         `gorm:"column:model;not null" json:"model"`
	Success       bool           `gorm:"column:success;not null" json:"success"`
	Error         string         `gorm:"column:error" json:"error,omitempty"`
	Summary       string         `gorm:"column:summary" json:"-"`
	Usage         datatypes.JSON `gorm:"column:usage" json:"usage"`
	CostUSD       float64        `gorm:"column:cost_usd" json:"cost_usd"`
	LatencyMS     int64          `gorm:"column:latency_ms" json:"latency_ms"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (GenerationLog) TableName() string {
	return "generation_log"
}

func (g *GenerationLog) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
