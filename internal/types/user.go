package types

import (
  "time"

  "github.com/google/uuid"
)

// Roles known to the platform. Role names double as keys into the
// permission matrix.
const (
  RoleTeacher     = "teacher"
  RoleSchoolAdmin = "school_admin"
  RolePlatform    = "platform_admin"
)

type User struct {
  ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
  Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
  FirstName string    `gorm:"column:first_name" json:"first_name"`
  LastName  string    `gorm:"column:last_name" json:"last_name"`
  Role      string    `gorm:"not null;column:role" json:"role"`
  SchoolID  uuid.UUID `gorm:"type:uuid;column:school_id" json:"school_id"`
  CreatedAt time.Time `gorm:"not null" json:"created_at"`
  UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
  return "user"
}
