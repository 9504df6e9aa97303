package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lessonforge/lessonforge-backend/internal/content"
	"github.com/lessonforge/lessonforge-backend/internal/logger"
	"github.com/lessonforge/lessonforge-backend/internal/repos"
	"github.com/lessonforge/lessonforge-backend/internal/types"
)

func newCreationFixture(t *testing.T) (CreationService, repos.CreationRepo) {
	t.Helper()

	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init failed: %v", err)
	}
	gormDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("sqlite open failed: %v", err)
	}
	if err := gormDB.AutoMigrate(&types.Creation{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	repo := repos.NewCreationRepo(gormDB, log)
	return NewCreationService(gormDB, log, repo), repo
}

func seedCreation(t *testing.T, repo repos.CreationRepo, ownerID uuid.UUID, title string) *types.Creation {
	t.Helper()

	now := time.Now()
	state := content.NewDocumentState(map[string]string{
		"objectives": "Identify the three states of matter.",
		"warmup":     "Melt an ice cube.",
	}, "seed prompt", ownerID, now)

	creation := &types.Creation{
		ID:        uuid.New(),
		CreatedBy: ownerID,
		Title:     title,
		Template:  content.TemplateLessonPlan,
		Status:    types.CreationStatusCompleted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := creation.SetDocumentState(state); err != nil {
		t.Fatalf("set state failed: %v", err)
	}
	created, err := repo.Create(context.Background(), nil, []*types.Creation{creation})
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return created[0]
}

func TestCreationCreate_ManualDocument(t *testing.T) {
	svc, _ := newCreationFixture(t)
	owner := uuid.New()

	creation, err := svc.Create(context.Background(), owner, CreateInput{
		Title:    "Imported notes",
		Template: content.TemplateLessonPlan,
		Sections: map[string]string{
			"objectives": "Typed in by hand.",
			"warmup":     "   ",
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	state, err := creation.DocumentState()
	if err != nil {
		t.Fatalf("state failed: %v", err)
	}
	if len(state.Sections) != 1 {
		t.Fatalf("blank sections must be dropped, got %d", len(state.Sections))
	}
	record := state.Sections["objectives"]
	if record.IsGenerated {
		t.Fatalf("manual sections must not be marked generated")
	}
	if state.CurrentVersion != 1 || state.Versions[0].ChangeDescription != "Manual creation" {
		t.Fatalf("unexpected history: %+v", state.Versions)
	}

	fallback, err := svc.Create(context.Background(), owner, CreateInput{})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if fallback.Title != "Untitled" || fallback.Template != content.TemplateBlank {
		t.Fatalf("defaults not applied: %+v", fallback)
	}
}

func TestCreationList_FiltersAndCounts(t *testing.T) {
	svc, repo := newCreationFixture(t)
	owner := uuid.New()
	other := uuid.New()
	seedCreation(t, repo, owner, "Mine 1")
	seedCreation(t, repo, owner, "Mine 2")
	seedCreation(t, repo, other, "Not mine")

	page, err := svc.List(context.Background(), owner, "", nil, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 2 || len(page.Creations) != 2 {
		t.Fatalf("expected the owner's two creations, got total=%d len=%d", page.Total, len(page.Creations))
	}
	for _, creation := range page.Creations {
		if creation.CreatedBy != owner {
			t.Fatalf("foreign creation leaked into list")
		}
	}

	page, err = svc.List(context.Background(), owner, content.TemplateQuiz, nil, 10, 0)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Total != 0 {
		t.Fatalf("template filter ignored, total=%d", page.Total)
	}
}

func TestCreationUpdate_PartialFields(t *testing.T) {
	svc, repo := newCreationFixture(t)
	owner := uuid.New()
	seeded := seedCreation(t, repo, owner, "Original")

	title := "Renamed"
	updated, err := svc.Update(context.Background(), owner, seeded.ID, CreationUpdate{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.Template != content.TemplateLessonPlan {
		t.Fatalf("unset fields must be preserved")
	}
}

func TestCreationUpdateSection_VersionsManualEdit(t *testing.T) {
	svc, repo := newCreationFixture(t)
	owner := uuid.New()
	seeded := seedCreation(t, repo, owner, "Doc")

	updated, err := svc.UpdateSection(context.Background(), owner, seeded.ID, "objectives", "Hand-written objectives.")
	if err != nil {
		t.Fatalf("update section failed: %v", err)
	}

	state, err := updated.DocumentState()
	if err != nil {
		t.Fatalf("state failed: %v", err)
	}
	record := state.Sections["objectives"]
	if record.Text != "Hand-written objectives." {
		t.Fatalf("section not replaced: %q", record.Text)
	}
	if record.IsGenerated {
		t.Fatalf("manual edit must clear the generated flag")
	}
	if state.CurrentVersion != 2 {
		t.Fatalf("manual edit must version, got %d", state.CurrentVersion)
	}

	if _, err := svc.UpdateSection(context.Background(), owner, seeded.ID, "homework", "x"); !errors.Is(err, content.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestCreationDuplicate_FreshHistoryUnpublished(t *testing.T) {
	svc, repo := newCreationFixture(t)
	owner := uuid.New()
	seeded := seedCreation(t, repo, owner, "Doc")

	if _, err := svc.SetPublished(context.Background(), owner, seeded.ID, true); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	copy, err := svc.Duplicate(context.Background(), owner, seeded.ID)
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}
	if copy.ID == seeded.ID {
		t.Fatalf("duplicate must get a new id")
	}
	if copy.Title != "Doc (Copy)" {
		t.Fatalf("unexpected title: %q", copy.Title)
	}
	if copy.Published {
		t.Fatalf("duplicate must start unpublished")
	}

	state, err := copy.DocumentState()
	if err != nil {
		t.Fatalf("state failed: %v", err)
	}
	if state.CurrentVersion != 1 || len(state.Versions) != 1 {
		t.Fatalf("duplicate must start a fresh history: %+v", state.Versions)
	}
	if state.Sections["objectives"].Text != "Identify the three states of matter." {
		t.Fatalf("sections must be copied")
	}
}

func TestCreationDelete_OwnershipEnforced(t *testing.T) {
	svc, repo := newCreationFixture(t)
	owner := uuid.New()
	seeded := seedCreation(t, repo, owner, "Doc")

	if err := svc.Delete(context.Background(), uuid.New(), seeded.ID); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(context.Background(), owner, seeded.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), owner, seeded.ID); !errors.Is(err, ErrCreationNotFound) {
		t.Fatalf("expected ErrCreationNotFound after delete, got %v", err)
	}
}

func TestCreationVersions_ReturnsHistory(t *testing.T) {
	svc, repo := newCreationFixture(t)
	owner := uuid.New()
	seeded := seedCreation(t, repo, owner, "Doc")

	if _, err := svc.UpdateSection(context.Background(), owner, seeded.ID, "warmup", "New warmup."); err != nil {
		t.Fatalf("update section failed: %v", err)
	}

	versions, err := svc.Versions(context.Background(), owner, seeded.ID)
	if err != nil {
		t.Fatalf("versions failed: %v", err)
	}
	if len(versions) != 2 || versions[1].SectionKey != "warmup" {
		t.Fatalf("unexpected history: %+v", versions)
	}
}
