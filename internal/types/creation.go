package types

import (
  "encoding/json"
  "time"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/lessonforge/lessonforge-backend/internal/content"
)

// Creation statuses. A creation is "completed" once generation succeeded;
// "failed" rows are kept for the audit trail.
const (
  CreationStatusCompleted = "completed"
  CreationStatusFailed    = "failed"
)

type Creation struct {
  ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
  CreatedBy          uuid.UUID      `gorm:"type:uuid;not null;index;column:created_by" json:"created_by"`
  Title              string         `gorm:"not null;column:title" json:"title"`
  Template           string         `gorm:"not null;index;column:template" json:"template"`
  Grade              string         `gorm:"column:grade" json:"grade"`
  Subject            string         `gorm:"column:subject" json:"subject"`
  Curriculum         string         `gorm:"column:curriculum" json:"curriculum"`
  Duration           int            `gorm:"column:duration" json:"duration"`
  Sessions           int            `gorm:"column:sessions" json:"sessions"`
  Difficulty         string         `gorm:"column:difficulty" json:"difficulty"`
  NumQuestions       int            `gorm:"column:num_questions" json:"num_questions"`
  Topics             datatypes.JSON `gorm:"column:topics" json:"topics"`
  AdditionalDetails  string         `gorm:"column:additional_details" json:"additional_details"`
  Sections           datatypes.JSON `gorm:"column:sections" json:"sections"`
  Versions           datatypes.JSON `gorm:"column:versions" json:"versions"`
  CurrentVersion     int            `gorm:"not null;default:1;column:current_version" json:"current_version"`
  ContentFingerprint string         `gorm:"index;column:content_fingerprint" json:"content_fingerprint"`
  Published          bool           `gorm:"not null;default:false;column:published" json:"published"`
  Status             string         `gorm:"not null;column:status" json:"status"`
  AIModel            string         `gorm:"column:ai_model" json:"ai_model"`
  TotalTokens        int            `gorm:"column:total_tokens" json:"total_tokens"`
  CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
  UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
}

func (Creation) TableName() string {
  return "creation"
}

// TopicsList decodes the stored topics column, never returning nil on error.
func (c *Creation) TopicsList() []string {
  var topics []string
  if len(c.Topics) > 0 {
    _ = json.Unmarshal(c.Topics, &topics)
  }
  if topics == nil {
    topics = []string{}
  }
  return topics
}

// DocumentState reconstructs the reconciler view from the stored columns.
func (c *Creation) DocumentState() (content.DocumentState, error) {
  state := content.DocumentState{
    Sections:       content.SectionMap{},
    CurrentVersion: c.CurrentVersion,
    Fingerprint:    c.ContentFingerprint,
  }
  if len(c.Sections) > 0 {
    if err := json.Unmarshal(c.Sections, &state.Sections); err != nil {
      return content.DocumentState{}, err
    }
  }
  if len(c.Versions) > 0 {
    if err := json.Unmarshal(c.Versions, &state.Versions); err != nil {
      return content.DocumentState{}, err
    }
  }
  return state, nil
}

// SetDocumentState writes the reconciler view back into the stored columns.
func (c *Creation) SetDocumentState(state content.DocumentState) error {
  sections, err := json.Marshal(state.Sections)
  if err != nil {
    return err
  }
  versions, err := json.Marshal(state.Versions)
  if err != nil {
    return err
  }
  c.Sections = sections
  c.Versions = versions
  c.CurrentVersion = state.CurrentVersion
  c.ContentFingerprint = state.Fingerprint
  return nil
}

// SetTopics encodes the topics list into the stored column.
func (c *Creation) SetTopics(topics []string) error {
  encoded, err := json.Marshal(topics)
  if err != nil {
    return err
  }
  c.Topics = encoded
  return nil
}
