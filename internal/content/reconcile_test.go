package content

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestState(t *testing.T) (DocumentState, uuid.UUID, time.Time) {
	t.Helper()
	actor := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	state := NewDocumentState(map[string]string{
		"objectives": "Identify the three states of matter.",
		"warmup":     "Melt an ice cube.",
	}, "the original prompt", actor, now)
	return state, actor, now
}

func TestNewDocumentState_InitialSnapshot(t *testing.T) {
	state, actor, now := newTestState(t)

	if state.CurrentVersion != 1 {
		t.Fatalf("expected version 1, got %d", state.CurrentVersion)
	}
	if len(state.Versions) != 1 {
		t.Fatalf("expected one version entry, got %d", len(state.Versions))
	}
	entry := state.Versions[0]
	if entry.VersionNumber != 1 || entry.SectionKey != "" || entry.ActorID != actor {
		t.Fatalf("unexpected initial entry: %+v", entry)
	}

	record := state.Sections["objectives"]
	if !record.IsGenerated || record.SourcePrompt != "the original prompt" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.ContentFingerprint != Fingerprint(record.Text) {
		t.Fatalf("record fingerprint does not match text")
	}
	if !record.LastRegeneratedAt.Equal(now) {
		t.Fatalf("unexpected timestamp: %v", record.LastRegeneratedAt)
	}
	if state.Fingerprint == "" {
		t.Fatalf("document fingerprint missing")
	}
}

func TestApplyRegenerate_ChangesExactlyOneSection(t *testing.T) {
	state, _, now := newTestState(t)
	actor := uuid.New()
	later := now.Add(time.Hour)
	beforeDoc := state.Fingerprint
	beforeWarmup := state.Sections["warmup"]

	result, err := state.ApplyRegenerate("objectives", "Name all four states of matter.", "More depth", actor, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.NoOp {
		t.Fatalf("expected a real change")
	}

	record := state.Sections["objectives"]
	if record.Text != "Name all four states of matter." {
		t.Fatalf("text not replaced: %q", record.Text)
	}
	if record.SourcePrompt != "the original prompt" {
		t.Fatalf("source prompt must survive regeneration: %q", record.SourcePrompt)
	}
	if !record.LastRegeneratedAt.Equal(later) {
		t.Fatalf("timestamp not bumped")
	}
	if state.Sections["warmup"] != beforeWarmup {
		t.Fatalf("untouched section changed")
	}

	if state.CurrentVersion != 2 || len(state.Versions) != 2 {
		t.Fatalf("expected version 2 with two entries, got %d/%d", state.CurrentVersion, len(state.Versions))
	}
	entry := state.Versions[1]
	if entry.VersionNumber != 2 || entry.SectionKey != "objectives" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.PreviousText != "Identify the three states of matter." {
		t.Fatalf("previous text not captured: %q", entry.PreviousText)
	}
	if entry.ChangeDescription != "More depth" || entry.ActorID != actor {
		t.Fatalf("unexpected entry metadata: %+v", entry)
	}
	if state.Fingerprint == beforeDoc {
		t.Fatalf("document fingerprint must change with content")
	}
}

func TestApplyRegenerate_IdenticalContentIsNoOp(t *testing.T) {
	state, actor, now := newTestState(t)
	beforeDoc := state.Fingerprint
	beforeRecord := state.Sections["objectives"]

	// same text modulo surrounding whitespace
	result, err := state.ApplyRegenerate("objectives", "  Identify the three states of matter.\n", "Tweak", actor, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.NoOp {
		t.Fatalf("expected no-op")
	}
	if result.Entry != nil {
		t.Fatalf("no-op must not produce a version entry")
	}
	if state.CurrentVersion != 1 || len(state.Versions) != 1 {
		t.Fatalf("no-op must not advance versions")
	}
	if state.Sections["objectives"] != beforeRecord {
		t.Fatalf("no-op must leave the record untouched")
	}
	if state.Fingerprint != beforeDoc {
		t.Fatalf("no-op must leave the document fingerprint untouched")
	}
}

func TestApplyRegenerate_UnknownSection(t *testing.T) {
	state, actor, now := newTestState(t)
	_, err := state.ApplyRegenerate("homework", "new text", "", actor, now)
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
	if state.CurrentVersion != 1 || len(state.Versions) != 1 {
		t.Fatalf("failed regeneration must not touch state")
	}
}

func TestApplyRegenerate_SequentialVersions(t *testing.T) {
	state, actor, now := newTestState(t)
	texts := []string{"first rewrite", "second rewrite", "third rewrite"}
	for i, text := range texts {
		result, err := state.ApplyRegenerate("warmup", text, "", actor, now.Add(time.Duration(i+1)*time.Minute))
		if err != nil {
			t.Fatalf("regeneration %d failed: %v", i, err)
		}
		if result.Entry.VersionNumber != i+2 {
			t.Fatalf("expected version %d, got %d", i+2, result.Entry.VersionNumber)
		}
	}
	if state.CurrentVersion != 4 {
		t.Fatalf("expected version 4, got %d", state.CurrentVersion)
	}
	for i, entry := range state.Versions {
		if entry.VersionNumber != i+1 {
			t.Fatalf("version log out of order at %d: %+v", i, entry)
		}
	}
}

func TestHasSection(t *testing.T) {
	state, _, _ := newTestState(t)
	if !state.HasSection("objectives") {
		t.Fatalf("expected objectives to exist")
	}
	if state.HasSection("homework") {
		t.Fatalf("homework should not exist")
	}
}
