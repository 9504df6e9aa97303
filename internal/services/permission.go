package services

import (
  _ "embed"
  "fmt"

  "gopkg.in/yaml.v3"

  "github.com/lessonforge/lessonforge-backend/internal/logger"
)

//go:embed permissions.yaml
var permissionsYAML []byte

// ErrPermissionDenied is returned when a role lacks a capability.
var ErrPermissionDenied = fmt.Errorf("permission denied")

type roleSpec struct {
  DailyAILimit int                 `yaml:"daily_ai_limit"`
  Permissions  map[string][]string `yaml:"permissions"`
}

type permissionMatrix struct {
  Roles map[string]roleSpec `yaml:"roles"`
}

// PermissionService answers capability questions from the compiled-in role
// matrix. Roles absent from the matrix can do nothing.
type PermissionService interface {
  Can(role, domain, action string) bool
  DailyLimit(role string) int
  Roles() []string
}

type permissionService struct {
  log    *logger.Logger
  matrix permissionMatrix
}

func NewPermissionService(log *logger.Logger) (PermissionService, error) {
  var matrix permissionMatrix
  if err := yaml.Unmarshal(permissionsYAML, &matrix); err != nil {
    return nil, fmt.Errorf("failed to parse permission matrix: %w", err)
  }
  if len(matrix.Roles) == 0 {
    return nil, fmt.Errorf("permission matrix defines no roles")
  }
  return &permissionService{
    log:    log.With("service", "PermissionService"),
    matrix: matrix,
  }, nil
}

func (ps *permissionService) Can(role, domain, action string) bool {
  spec, ok := ps.matrix.Roles[role]
  if !ok {
    return false
  }
  for _, allowed := range spec.Permissions[domain] {
    if allowed == action {
      return true
    }
  }
  return false
}

// DailyLimit returns the per-day AI generation budget for a role. 0 means
// unlimited; unknown roles get no budget at all.
func (ps *permissionService) DailyLimit(role string) int {
  spec, ok := ps.matrix.Roles[role]
  if !ok {
    return -1
  }
  return spec.DailyAILimit
}

func (ps *permissionService) Roles() []string {
  roles := make([]string, 0, len(ps.matrix.Roles))
  for role := range ps.matrix.Roles {
    roles = append(roles, role)
  }
  return roles
}
