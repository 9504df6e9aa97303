package services

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/lessonforge/lessonforge-backend/internal/content"
  "github.com/lessonforge/lessonforge-backend/internal/logger"
  "github.com/lessonforge/lessonforge-backend/internal/normalization"
  "github.com/lessonforge/lessonforge-backend/internal/prompts"
  "github.com/lessonforge/lessonforge-backend/internal/repos"
  "github.com/lessonforge/lessonforge-backend/internal/types"
)

var (
  // ErrCreationNotFound is returned when the target creation does not exist.
  ErrCreationNotFound = errors.New("creation not found")
  // ErrNotOwner is returned when a user touches a creation they do not own.
  ErrNotOwner = errors.New("not the owner of this creation")
)

// GenerateInput is the raw client request. Every field may be empty; the
// service normalizes before prompting.
type GenerateInput struct {
  Title                  string
  Template               string
  Grade                  string
  Subject                string
  Curriculum             string
  Topics                 []string
  AdditionalInstructions string
  Duration               int
  Sessions               int
  Difficulty             string
  NumQuestions           int
}

// RegenerateOutput reports what a section regeneration did. NoOp means the
// model returned content identical to what was stored; nothing was persisted
// and no version was added.
type RegenerateOutput struct {
  Creation *types.Creation
  NoOp     bool
  Section  content.SectionRecord
}

// UsageInfo is today's consumption against the role's budget. Limit 0 means
// unlimited; Remaining is -1 in that case.
type UsageInfo struct {
  Used      int64 `json:"used"`
  Limit     int   `json:"limit"`
  Remaining int64 `json:"remaining"`
}

// ModelInfo describes one text generation model offered to clients.
type ModelInfo struct {
  ID     string `json:"id"`
  Active bool   `json:"active"`
}

type GenerationService interface {
  Generate(ctx context.Context, userID uuid.UUID, role string, input GenerateInput) (*types.Creation, error)
  Regenerate(ctx context.Context, userID uuid.UUID, role string, creationID uuid.UUID, sectionKey, tweak string) (*RegenerateOutput, error)
  Sections(ctx context.Context, userID, creationID uuid.UUID) (content.SectionMap, error)
  UsageToday(ctx context.Context, userID uuid.UUID, role string) (*UsageInfo, error)
  Models() []ModelInfo
}

type generationService struct {
  db           *gorm.DB
  log          *logger.Logger
  ai           AIClient
  permissions  PermissionService
  usage        UsageService
  creationRepo repos.CreationRepo
  callLogRepo  repos.AICallLogRepo
}

func NewGenerationService(
  db *gorm.DB,
  log *logger.Logger,
  ai AIClient,
  permissions PermissionService,
  usage UsageService,
  creationRepo repos.CreationRepo,
  callLogRepo repos.AICallLogRepo,
) GenerationService {
  return &generationService{
    db:           db,
    log:          log.With("service", "GenerationService"),
    ai:           ai,
    permissions:  permissions,
    usage:        usage,
    creationRepo: creationRepo,
    callLogRepo:  callLogRepo,
  }
}

func (gs *generationService) Generate(ctx context.Context, userID uuid.UUID, role string, input GenerateInput) (*types.Creation, error) {
  normalized := normalizeInput(input)

  limit := gs.permissions.DailyLimit(role)
  used, err := gs.usage.ConsumeGeneration(ctx, userID, limit)
  if err != nil {
    return nil, err
  }
  gs.log.Debug("Generation slot consumed", "user_id", userID.String(), "used", used, "limit", limit)

  prompt := prompts.Generation(prompts.Input{
    Template:               normalized.Template,
    Title:                  normalized.Title,
    Grade:                  normalized.Grade,
    Subject:                normalized.Subject,
    Curriculum:             normalized.Curriculum,
    Topics:                 normalized.Topics,
    AdditionalInstructions: normalized.AdditionalInstructions,
    Duration:               normalized.Duration,
    Sessions:               normalized.Sessions,
    Difficulty:             normalized.Difficulty,
    NumQuestions:           normalized.NumQuestions,
  })

  start := time.Now()
  text, genErr := gs.ai.GenerateText(ctx, prompt)
  gs.recordCall(ctx, userID, uuid.Nil, "generate", prompt, text, start, genErr)
  if genErr != nil {
    gs.log.Error("Generation failed", "user_id", userID.String(), "template", normalized.Template, "error", genErr)
    return nil, genErr
  }

  now := time.Now()
  segments := content.Segment(text, normalized.Template)
  state := content.NewDocumentState(segments, prompt, userID, now)

  var result *types.Creation
  txErr := gs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := gs.creationRepo.FindDuplicate(ctx, tx, userID, normalized.Title, normalized.Template, state.Fingerprint)
    if err != nil {
      return err
    }
    if existing != nil {
      // identical resubmission: refresh the row instead of inserting a twin
      existing.UpdatedAt = now
      if err := gs.creationRepo.Update(ctx, tx, existing); err != nil {
        return err
      }
      result = existing
      return nil
    }

    creation := &types.Creation{
      ID:                uuid.New(),
      CreatedBy:         userID,
      Title:             normalized.Title,
      Template:          normalized.Template,
      Grade:             normalized.Grade,
      Subject:           normalized.Subject,
      Curriculum:        normalized.Curriculum,
      Duration:          normalized.Duration,
      Sessions:          normalized.Sessions,
      Difficulty:        normalized.Difficulty,
      NumQuestions:      normalized.NumQuestions,
      AdditionalDetails: normalized.AdditionalInstructions,
      Status:            types.CreationStatusCompleted,
      AIModel:           gs.ai.Model(),
      TotalTokens:       estimateTokens(prompt, text),
      CreatedAt:         now,
      UpdatedAt:         now,
    }
    if err := creation.SetTopics(normalized.Topics); err != nil {
      return err
    }
    if err := creation.SetDocumentState(state); err != nil {
      return err
    }
    created, err := gs.creationRepo.Create(ctx, tx, []*types.Creation{creation})
    if err != nil {
      return err
    }
    result = created[0]
    return nil
  })
  if txErr != nil {
    return nil, txErr
  }

  if err := gs.usage.RecordActivity(ctx, userID, result.ID, types.ActivityGenerate); err != nil {
    gs.log.Warn("Failed to record generation activity", "error", err)
  }
  return result, nil
}

func (gs *generationService) Regenerate(ctx context.Context, userID uuid.UUID, role string, creationID uuid.UUID, sectionKey, tweak string) (*RegenerateOutput, error) {
  creation, err := gs.ownedCreation(ctx, userID, creationID)
  if err != nil {
    return nil, err
  }

  state, err := creation.DocumentState()
  if err != nil {
    return nil, err
  }
  if !state.HasSection(sectionKey) {
    return nil, content.ErrSectionNotFound
  }

  limit := gs.permissions.DailyLimit(role)
  if _, err := gs.usage.ConsumeGeneration(ctx, userID, limit); err != nil {
    return nil, err
  }

  record := state.Sections[sectionKey]
  prompt := prompts.Regeneration(sectionKey, prompts.RegenerationContext{
    Title:             creation.Title,
    Grade:             creation.Grade,
    Subject:           creation.Subject,
    Curriculum:        creation.Curriculum,
    Template:          creation.Template,
    Duration:          creation.Duration,
    Topics:            creation.TopicsList(),
    AdditionalDetails: creation.AdditionalDetails,
  }, record.SourcePrompt, record.Text, tweak)

  start := time.Now()
  text, genErr := gs.ai.GenerateText(ctx, prompt)
  gs.recordCall(ctx, userID, creationID, "regenerate", prompt, text, start, genErr)
  if genErr != nil {
    gs.log.Error("Regeneration failed", "user_id", userID.String(), "section", sectionKey, "error", genErr)
    return nil, genErr
  }

  changeDescription := tweak
  if changeDescription == "" {
    changeDescription = "Regenerated " + content.SectionTitle(sectionKey)
  }

  now := time.Now()
  result, err := state.ApplyRegenerate(sectionKey, text, changeDescription, userID, now)
  if err != nil {
    return nil, err
  }
  if result.NoOp {
    gs.log.Info("Regeneration produced identical content, skipping persist",
      "user_id", userID.String(), "section", sectionKey)
    return &RegenerateOutput{Creation: creation, NoOp: true, Section: result.Record}, nil
  }

  if err := creation.SetDocumentState(state); err != nil {
    return nil, err
  }
  creation.TotalTokens += estimateTokens(prompt, text)
  creation.UpdatedAt = now
  if err := gs.creationRepo.Update(ctx, nil, creation); err != nil {
    return nil, err
  }

  if err := gs.usage.RecordActivity(ctx, userID, creation.ID, types.ActivityRegenerate); err != nil {
    gs.log.Warn("Failed to record regeneration activity", "error", err)
  }
  return &RegenerateOutput{Creation: creation, Section: result.Record}, nil
}

func (gs *generationService) Sections(ctx context.Context, userID, creationID uuid.UUID) (content.SectionMap, error) {
  creation, err := gs.ownedCreation(ctx, userID, creationID)
  if err != nil {
    return nil, err
  }
  state, err := creation.DocumentState()
  if err != nil {
    return nil, err
  }
  return state.Sections, nil
}

func (gs *generationService) UsageToday(ctx context.Context, userID uuid.UUID, role string) (*UsageInfo, error) {
  used, err := gs.usage.UsedToday(ctx, userID)
  if err != nil {
    return nil, err
  }
  limit := gs.permissions.DailyLimit(role)
  info := &UsageInfo{Used: used, Limit: limit, Remaining: -1}
  if limit > 0 {
    remaining := int64(limit) - used
    if remaining < 0 {
      remaining = 0
    }
    info.Remaining = remaining
  }
  return info, nil
}

// Models lists the selectable generation models. The configured model is
// always present and marked active.
func (gs *generationService) Models() []ModelInfo {
  known := []string{"gemini-2.0-flash", "gemini-2.0-flash-lite", "gemini-1.5-pro"}
  active := gs.ai.Model()

  models := make([]ModelInfo, 0, len(known)+1)
  seen := false
  for _, id := range known {
    if id == active {
      seen = true
    }
    models = append(models, ModelInfo{ID: id, Active: id == active})
  }
  if !seen {
    models = append(models, ModelInfo{ID: active, Active: true})
  }
  return models
}

func (gs *generationService) ownedCreation(ctx context.Context, userID, creationID uuid.UUID) (*types.Creation, error) {
  creations, err := gs.creationRepo.GetByIDs(ctx, nil, []uuid.UUID{creationID})
  if err != nil {
    return nil, err
  }
  if len(creations) == 0 {
    return nil, ErrCreationNotFound
  }
  creation := creations[0]
  if creation.CreatedBy != userID {
    return nil, ErrNotOwner
  }
  return creation, nil
}

func (gs *generationService) recordCall(ctx context.Context, userID, creationID uuid.UUID, operation, prompt, response string, start time.Time, callErr error) {
  entry := &types.AICallLog{
    ID:            uuid.New(),
    UserID:        userID,
    CreationID:    creationID,
    Operation:     operation,
    Model:         gs.ai.Model(),
    PromptChars:   len(prompt),
    ResponseChars: len(response),
    TokensUsed:    estimateTokens(prompt, response),
    DurationMS:    time.Since(start).Milliseconds(),
    Success:       callErr == nil,
    CreatedAt:     time.Now(),
  }
  if callErr != nil {
    entry.ErrorMessage = callErr.Error()
  }
  if _, err := gs.callLogRepo.Create(ctx, nil, []*types.AICallLog{entry}); err != nil {
    gs.log.Warn("Failed to record AI call", "error", err)
  }
}

// estimateTokens is the rough chars/4 heuristic, good enough for budgeting.
func estimateTokens(prompt, response string) int {
  return (len(prompt) + len(response)) / 4
}

func normalizeInput(input GenerateInput) GenerateInput {
  out := input
  out.Title = normalization.DefaultString(input.Title, "Untitled")
  out.Template = normalization.DefaultString(input.Template, content.TemplateBlank)
  out.Grade = normalization.DefaultString(input.Grade, "1")
  out.Subject = normalization.DefaultString(input.Subject, "General")
  out.Curriculum = normalization.DefaultString(input.Curriculum, "CBSE")
  out.Difficulty = normalization.DefaultString(input.Difficulty, "Medium")
  out.Duration = normalization.DefaultInt(input.Duration, 45)
  out.Sessions = normalization.DefaultInt(input.Sessions, 5)
  out.NumQuestions = normalization.DefaultInt(input.NumQuestions, 10)
  out.Topics = normalization.NormalizeTopics(input.Topics)
  return out
}
