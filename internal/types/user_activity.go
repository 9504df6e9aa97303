package types

import (
  "time"

  "github.com/google/uuid"
)

// Activity types recorded against a user. Generation activity feeds the
// daily usage limit when the counter store is unavailable.
const (
  ActivityGenerate   = "ai_generate"
  ActivityRegenerate = "ai_regenerate"
)

type UserActivity struct {
  ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  UserID     uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  Activity   string    `gorm:"not null;column:activity" json:"activity"`
  CreationID uuid.UUID `gorm:"type:uuid;column:creation_id" json:"creation_id"`
  CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (UserActivity) TableName() string {
  return "user_activity"
}
