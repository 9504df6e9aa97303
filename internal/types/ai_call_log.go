package types

import (
  "time"

  "github.com/google/uuid"
)

// AICallLog records one provider round trip for cost accounting and
// debugging. PromptChars and ResponseChars are raw sizes, not tokens.
type AICallLog struct {
  ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserID        uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  CreationID    uuid.UUID `gorm:"type:uuid;column:creation_id" json:"creation_id"`
  Operation     string    `gorm:"not null;column:operation" json:"operation"`
  Model         string    `gorm:"column:model" json:"model"`
  PromptChars   int       `gorm:"column:prompt_chars" json:"prompt_chars"`
  ResponseChars int       `gorm:"column:response_chars" json:"response_chars"`
  TokensUsed    int       `gorm:"column:tokens_used" json:"tokens_used"`
  DurationMS    int64     `gorm:"column:duration_ms" json:"duration_ms"`
  Success       bool      `gorm:"not null;column:success" json:"success"`
  ErrorMessage  string    `gorm:"column:error_message" json:"error_message"`
  CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}

func (AICallLog) TableName() string {
  return "ai_call_log"
}
