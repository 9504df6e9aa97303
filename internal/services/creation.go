package services

import (
  "context"
  "encoding/json"
  "strings"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/lessonforge/lessonforge-backend/internal/content"
  "github.com/lessonforge/lessonforge-backend/internal/logger"
  "github.com/lessonforge/lessonforge-backend/internal/repos"
  "github.com/lessonforge/lessonforge-backend/internal/types"
)

// CreationUpdate carries the editable fields. Nil pointers are left alone.
// Section edits go through UpdateSection so fingerprints and history stay
// consistent.
type CreationUpdate struct {
  Title             *string
  Grade             *string
  Subject           *string
  Curriculum        *string
  AdditionalDetails *string
}

// CreationPage is one page of the owner's library plus the unpaged total.
type CreationPage struct {
  Creations []*types.Creation `json:"creations"`
  Total     int64             `json:"total"`
}

// CreateInput builds a creation without involving the AI: the caller brings
// the section text. Used for blank documents and imports.
type CreateInput struct {
  Title      string
  Template   string
  Grade      string
  Subject    string
  Curriculum string
  Sections   map[string]string
}

type CreationService interface {
  Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*types.Creation, error)
  Get(ctx context.Context, userID, creationID uuid.UUID) (*types.Creation, error)
  List(ctx context.Context, userID uuid.UUID, template string, published *bool, limit, offset int) (*CreationPage, error)
  Update(ctx context.Context, userID, creationID uuid.UUID, update CreationUpdate) (*types.Creation, error)
  UpdateSection(ctx context.Context, userID, creationID uuid.UUID, sectionKey, text string) (*types.Creation, error)
  Delete(ctx context.Context, userID, creationID uuid.UUID) error
  Duplicate(ctx context.Context, userID, creationID uuid.UUID) (*types.Creation, error)
  SetPublished(ctx context.Context, userID, creationID uuid.UUID, published bool) (*types.Creation, error)
  Versions(ctx context.Context, userID, creationID uuid.UUID) ([]content.VersionEntry, error)
}

type creationService struct {
  db           *gorm.DB
  log          *logger.Logger
  creationRepo repos.CreationRepo
}

func NewCreationService(db *gorm.DB, log *logger.Logger, creationRepo repos.CreationRepo) CreationService {
  return &creationService{
    db:           db,
    log:          log.With("service", "CreationService"),
    creationRepo: creationRepo,
  }
}

func (cs *creationService) Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*types.Creation, error) {
  now := time.Now()
  template := input.Template
  if template == "" {
    template = content.TemplateBlank
  }
  title := input.Title
  if title == "" {
    title = "Untitled"
  }

  sections := map[string]string{}
  for key, text := range input.Sections {
    if trimmed := strings.TrimSpace(text); trimmed != "" {
      sections[key] = trimmed
    }
  }

  state := content.NewDocumentState(sections, "", userID, now)
  state.Versions[0].ChangeDescription = "Manual creation"
  for key, record := range state.Sections {
    record.IsGenerated = false
    state.Sections[key] = record
  }

  creation := &types.Creation{
    ID:         uuid.New(),
    CreatedBy:  userID,
    Title:      title,
    Template:   template,
    Grade:      input.Grade,
    Subject:    input.Subject,
    Curriculum: input.Curriculum,
    Status:     types.CreationStatusCompleted,
    CreatedAt:  now,
    UpdatedAt:  now,
  }
  if err := creation.SetDocumentState(state); err != nil {
    return nil, err
  }

  created, err := cs.creationRepo.Create(ctx, nil, []*types.Creation{creation})
  if err != nil {
    return nil, err
  }
  return created[0], nil
}

func (cs *creationService) Get(ctx context.Context, userID, creationID uuid.UUID) (*types.Creation, error) {
  return cs.owned(ctx, userID, creationID)
}

func (cs *creationService) List(ctx context.Context, userID uuid.UUID, template string, published *bool, limit, offset int) (*CreationPage, error) {
  if limit <= 0 || limit > 100 {
    limit = 20
  }
  filter := repos.ListFilter{
    OwnerID:   userID,
    Template:  template,
    Published: published,
    Limit:     limit,
    Offset:    offset,
  }

  page := &CreationPage{}
  g, gctx := errgroup.WithContext(ctx)
  g.Go(func() error {
    creations, err := cs.creationRepo.List(gctx, nil, filter)
    if err != nil {
      return err
    }
    page.Creations = creations
    return nil
  })
  g.Go(func() error {
    total, err := cs.creationRepo.Count(gctx, nil, filter)
    if err != nil {
      return err
    }
    page.Total = total
    return nil
  })
  if err := g.Wait(); err != nil {
    return nil, err
  }
  if page.Creations == nil {
    page.Creations = []*types.Creation{}
  }
  return page, nil
}

func (cs *creationService) Update(ctx context.Context, userID, creationID uuid.UUID, update CreationUpdate) (*types.Creation, error) {
  creation, err := cs.owned(ctx, userID, creationID)
  if err != nil {
    return nil, err
  }

  if update.Title != nil {
    creation.Title = *update.Title
  }
  if update.Grade != nil {
    creation.Grade = *update.Grade
  }
  if update.Subject != nil {
    creation.Subject = *update.Subject
  }
  if update.Curriculum != nil {
    creation.Curriculum = *update.Curriculum
  }
  if update.AdditionalDetails != nil {
    creation.AdditionalDetails = *update.AdditionalDetails
  }
  creation.UpdatedAt = time.Now()

  if err := cs.creationRepo.Update(ctx, nil, creation); err != nil {
    return nil, err
  }
  return creation, nil
}

// UpdateSection applies a manual edit to one section. Manual edits flow
// through the same reconciliation as regenerations, so they version and
// fingerprint identically, but the section is marked hand-written.
func (cs *creationService) UpdateSection(ctx context.Context, userID, creationID uuid.UUID, sectionKey, text string) (*types.Creation, error) {
  creation, err := cs.owned(ctx, userID, creationID)
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

  now := time.Now()
  result, err := state.ApplyRegenerate(sectionKey, text, "Manual edit of "+content.SectionTitle(sectionKey), userID, now)
  if err != nil {
    return nil, err
  }
  if result.NoOp {
    return creation, nil
  }

  record := state.Sections[sectionKey]
  record.IsGenerated = false
  state.Sections[sectionKey] = record

  if err := creation.SetDocumentState(state); err != nil {
    return nil, err
  }
  creation.UpdatedAt = now
  if err := cs.creationRepo.Update(ctx, nil, creation); err != nil {
    return nil, err
  }
  return creation, nil
}

func (cs *creationService) Delete(ctx context.Context, userID, creationID uuid.UUID) error {
  if _, err := cs.owned(ctx, userID, creationID); err != nil {
    return err
  }
  return cs.creationRepo.Delete(ctx, nil, creationID)
}

// Duplicate copies the document under a new id with a fresh single-entry
// version history. The copy starts unpublished regardless of the source.
func (cs *creationService) Duplicate(ctx context.Context, userID, creationID uuid.UUID) (*types.Creation, error) {
  source, err := cs.owned(ctx, userID, creationID)
  if err != nil {
    return nil, err
  }

  now := time.Now()
  state, err := source.DocumentState()
  if err != nil {
    return nil, err
  }
  state.Versions = []content.VersionEntry{{
    VersionNumber:     1,
    ChangeDescription: "Duplicated from " + source.Title,
    ActorID:           userID,
    CreatedAt:         now,
  }}
  state.CurrentVersion = 1

  duplicate := &types.Creation{
    ID:                uuid.New(),
    CreatedBy:         userID,
    Title:             source.Title + " (Copy)",
    Template:          source.Template,
    Grade:             source.Grade,
    Subject:           source.Subject,
    Curriculum:        source.Curriculum,
    Duration:          source.Duration,
    Sessions:          source.Sessions,
    Difficulty:        source.Difficulty,
    NumQuestions:      source.NumQuestions,
    Topics:            source.Topics,
    AdditionalDetails: source.AdditionalDetails,
    Status:            source.Status,
    AIModel:           source.AIModel,
    CreatedAt:         now,
    UpdatedAt:         now,
  }
  if err := duplicate.SetDocumentState(state); err != nil {
    return nil, err
  }

  created, err := cs.creationRepo.Create(ctx, nil, []*types.Creation{duplicate})
  if err != nil {
    return nil, err
  }
  return created[0], nil
}

func (cs *creationService) SetPublished(ctx context.Context, userID, creationID uuid.UUID, published bool) (*types.Creation, error) {
  creation, err := cs.owned(ctx, userID, creationID)
  if err != nil {
    return nil, err
  }
  creation.Published = published
  creation.UpdatedAt = time.Now()
  if err := cs.creationRepo.Update(ctx, nil, creation); err != nil {
    return nil, err
  }
  return creation, nil
}

func (cs *creationService) Versions(ctx context.Context, userID, creationID uuid.UUID) ([]content.VersionEntry, error) {
  creation, err := cs.owned(ctx, userID, creationID)
  if err != nil {
    return nil, err
  }
  var versions []content.VersionEntry
  if len(creation.Versions) > 0 {
    if err := json.Unmarshal(creation.Versions, &versions); err != nil {
      return nil, err
    }
  }
  if versions == nil {
    versions = []content.VersionEntry{}
  }
  return versions, nil
}

func (cs *creationService) owned(ctx context.Context, userID, creationID uuid.UUID) (*types.Creation, error) {
  creations, err := cs.creationRepo.GetByIDs(ctx, nil, []uuid.UUID{creationID})
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
