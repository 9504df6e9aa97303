package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lessonforge/lessonforge-backend/internal/content"
	"github.com/lessonforge/lessonforge-backend/internal/logger"
	"github.com/lessonforge/lessonforge-backend/internal/repos"
	"github.com/lessonforge/lessonforge-backend/internal/types"
)

const scriptedLessonPlan = `LEARNING OBJECTIVES
Identify the three states of matter.

PRIOR KNOWLEDGE
Everyday materials differ.

WARM-UP ACTIVITY
Melt an ice cube.

INTRODUCTION
Connect to weather.

MAIN ACTIVITIES
Water, ice and steam stations.

ASSESSMENT STRATEGIES
Exit ticket.

RESOURCES AND MATERIALS
Ice cubes and a kettle.

DIFFERENTIATION STRATEGIES
Sentence starters.

HOMEWORK/EXTENSION ACTIVITIES
Find state changes at home.`

type scriptedAI struct {
	responses []string
	calls     int
}

func (s *scriptedAI) GenerateText(ctx context.Context, prompt string) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("scripted AI exhausted")
	}
	text := s.responses[s.calls]
	s.calls++
	return text, nil
}

func (s *scriptedAI) Model() string { return "test-model" }

type fixedPermissions struct {
	limit int
}

func (p *fixedPermissions) Can(role, domain, action string) bool { return true }
func (p *fixedPermissions) DailyLimit(role string) int           { return p.limit }
func (p *fixedPermissions) Roles() []string                      { return []string{"teacher"} }

type generationFixture struct {
	db           *gorm.DB
	svc          GenerationService
	creationRepo repos.CreationRepo
	ai           *scriptedAI
}

func newGenerationFixture(t *testing.T, responses []string, limit int) *generationFixture {
	t.Helper()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}

	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite open failed: %v", err)
	}
	if err := gormDB.AutoMigrate(&types.User{}, &types.Creation{}, &types.UserActivity{}, &types.AICallLog{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	creationRepo := repos.NewCreationRepo(gormDB, log)
	activityRepo := repos.NewUserActivityRepo(gormDB, log)
	callLogRepo := repos.NewAICallLogRepo(gormDB, log)

	ai := &scriptedAI{responses: responses}
	usage := NewUsageService(nil, activityRepo, log)
	svc := NewGenerationService(gormDB, log, ai, &fixedPermissions{limit: limit}, usage, creationRepo, callLogRepo)

	return &generationFixture{db: gormDB, svc: svc, creationRepo: creationRepo, ai: ai}
}

func TestGenerate_CreatesSegmentedCreation(t *testing.T) {
	fx := newGenerationFixture(t, []string{scriptedLessonPlan}, 0)
	userID := uuid.New()

	creation, err := fx.svc.Generate(context.Background(), userID, "teacher", GenerateInput{
		Title:    "States of Matter",
		Template: content.TemplateLessonPlan,
		Grade:    "6",
		Subject:  "Science",
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if creation.ID == uuid.Nil || creation.CreatedBy != userID {
		t.Fatalf("unexpected identity: %+v", creation)
	}
	if creation.Status != types.CreationStatusCompleted || creation.AIModel != "test-model" {
		t.Fatalf("unexpected metadata: %+v", creation)
	}
	if creation.CurrentVersion != 1 || creation.ContentFingerprint == "" {
		t.Fatalf("unexpected versioning: %+v", creation)
	}

	state, err := creation.DocumentState()
	if err != nil {
		t.Fatalf("document state failed: %v", err)
	}
	if len(state.Sections) != 9 {
		t.Fatalf("expected 9 sections, got %d", len(state.Sections))
	}
	record := state.Sections["objectives"]
	if record.Text != "Identify the three states of matter." || !record.IsGenerated {
		t.Fatalf("unexpected objectives record: %+v", record)
	}
	if record.SourcePrompt == "" {
		t.Fatalf("generation prompt must be stored with the section")
	}
	if len(state.Versions) != 1 || state.Versions[0].VersionNumber != 1 {
		t.Fatalf("unexpected version log: %+v", state.Versions)
	}
}

func TestGenerate_AppliesDefaults(t *testing.T) {
	fx := newGenerationFixture(t, []string{"free form output"}, 0)

	creation, err := fx.svc.Generate(context.Background(), uuid.New(), "teacher", GenerateInput{})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if creation.Title != "Untitled" || creation.Grade != "1" || creation.Subject != "General" {
		t.Fatalf("defaults not applied: %+v", creation)
	}
	if creation.Curriculum != "CBSE" || creation.Duration != 45 || creation.NumQuestions != 10 {
		t.Fatalf("defaults not applied: %+v", creation)
	}
	if got := creation.TopicsList(); len(got) != 1 || got[0] != "General concepts" {
		t.Fatalf("topic fallback not applied: %v", got)
	}
}

func TestGenerate_SuppressesIdenticalResubmission(t *testing.T) {
	fx := newGenerationFixture(t, []string{scriptedLessonPlan, scriptedLessonPlan}, 0)
	userID := uuid.New()
	input := GenerateInput{Title: "States of Matter", Template: content.TemplateLessonPlan}

	first, err := fx.svc.Generate(context.Background(), userID, "teacher", input)
	if err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	second, err := fx.svc.Generate(context.Background(), userID, "teacher", input)
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("identical resubmission must reuse the row: %s vs %s", first.ID, second.ID)
	}
	count, err := fx.creationRepo.Count(context.Background(), nil, repos.ListFilter{OwnerID: userID})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single stored creation, got %d", count)
	}
}

func TestGenerate_DailyLimit(t *testing.T) {
	fx := newGenerationFixture(t, []string{"one", "two", "three"}, 2)
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := fx.svc.Generate(context.Background(), userID, "teacher", GenerateInput{Title: "T"}); err != nil {
			t.Fatalf("generate %d failed: %v", i, err)
		}
	}
	_, err := fx.svc.Generate(context.Background(), userID, "teacher", GenerateInput{Title: "T"})
	if !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("expected ErrDailyLimitReached, got %v", err)
	}
}

func TestGenerate_NegativeLimitDeniesOutright(t *testing.T) {
	fx := newGenerationFixture(t, []string{"never used"}, -1)
	_, err := fx.svc.Generate(context.Background(), uuid.New(), "unknown_role", GenerateInput{})
	if !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("expected ErrDailyLimitReached, got %v", err)
	}
	if fx.ai.calls != 0 {
		t.Fatalf("AI must not be called when denied")
	}
}

func TestRegenerate_ReplacesSectionAndVersions(t *testing.T) {
	fx := newGenerationFixture(t, []string{scriptedLessonPlan, "Name all four states of matter."}, 0)
	userID := uuid.New()

	creation, err := fx.svc.Generate(context.Background(), userID, "teacher", GenerateInput{
		Title:    "States of Matter",
		Template: content.TemplateLessonPlan,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	out, err := fx.svc.Regenerate(context.Background(), userID, "teacher", creation.ID, "objectives", "More depth")
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if out.NoOp {
		t.Fatalf("expected a real change")
	}
	if out.Section.Text != "Name all four states of matter." {
		t.Fatalf("unexpected section text: %q", out.Section.Text)
	}
	if out.Section.SourcePrompt == "" {
		t.Fatalf("original prompt must survive regeneration")
	}

	stored, err := fx.svc.Sections(context.Background(), userID, creation.ID)
	if err != nil {
		t.Fatalf("sections failed: %v", err)
	}
	if stored["objectives"].Text != "Name all four states of matter." {
		t.Fatalf("regeneration not persisted: %q", stored["objectives"].Text)
	}
	if stored["warmup"].Text != "Melt an ice cube." {
		t.Fatalf("untouched section changed: %q", stored["warmup"].Text)
	}

	reloaded, err := fx.creationRepo.GetByIDs(context.Background(), nil, []uuid.UUID{creation.ID})
	if err != nil || len(reloaded) != 1 {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded[0].CurrentVersion != 2 {
		t.Fatalf("expected version 2, got %d", reloaded[0].CurrentVersion)
	}
}

func TestRegenerate_IdenticalContentIsNoOp(t *testing.T) {
	fx := newGenerationFixture(t, []string{scriptedLessonPlan, "Identify the three states of matter."}, 0)
	userID := uuid.New()

	creation, err := fx.svc.Generate(context.Background(), userID, "teacher", GenerateInput{
		Title:    "States of Matter",
		Template: content.TemplateLessonPlan,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	out, err := fx.svc.Regenerate(context.Background(), userID, "teacher", creation.ID, "objectives", "")
	if err != nil {
		t.Fatalf("regenerate failed: %v", err)
	}
	if !out.NoOp {
		t.Fatalf("expected no-op for identical content")
	}

	reloaded, err := fx.creationRepo.GetByIDs(context.Background(), nil, []uuid.UUID{creation.ID})
	if err != nil || len(reloaded) != 1 {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded[0].CurrentVersion != 1 {
		t.Fatalf("no-op must not advance the version, got %d", reloaded[0].CurrentVersion)
	}
}

func TestRegenerate_UnknownSectionAndForeignOwner(t *testing.T) {
	fx := newGenerationFixture(t, []string{scriptedLessonPlan, "unused", "unused"}, 0)
	userID := uuid.New()

	creation, err := fx.svc.Generate(context.Background(), userID, "teacher", GenerateInput{
		Title:    "States of Matter",
		Template: content.TemplateLessonPlan,
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := fx.svc.Regenerate(context.Background(), userID, "teacher", creation.ID, "nonexistent", ""); !errors.Is(err, content.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
	if _, err := fx.svc.Regenerate(context.Background(), uuid.New(), "teacher", creation.ID, "objectives", ""); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := fx.svc.Regenerate(context.Background(), userID, "teacher", uuid.New(), "objectives", ""); !errors.Is(err, ErrCreationNotFound) {
		t.Fatalf("expected ErrCreationNotFound, got %v", err)
	}
}

func TestModels_ConfiguredModelIsActive(t *testing.T) {
	fx := newGenerationFixture(t, nil, 0)

	models := fx.svc.Models()
	active := 0
	for _, m := range models {
		if m.Active {
			active++
			if m.ID != "test-model" {
				t.Fatalf("wrong active model: %+v", m)
			}
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active model, got %d", active)
	}
}

func TestUsageToday_ReportsConsumption(t *testing.T) {
	fx := newGenerationFixture(t, []string{"one", "two"}, 5)
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := fx.svc.Generate(context.Background(), userID, "teacher", GenerateInput{Title: "T"}); err != nil {
			t.Fatalf("generate %d failed: %v", i, err)
		}
	}

	info, err := fx.svc.UsageToday(context.Background(), userID, "teacher")
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	if info.Used != 2 || info.Limit != 5 || info.Remaining != 3 {
		t.Fatalf("unexpected usage: %+v", info)
	}
}
