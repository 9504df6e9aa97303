package content

import (
  "errors"
  "time"

  "github.com/google/uuid"
)

// ErrSectionNotFound is returned when a regeneration targets a section the
// document never generated. Retrying the same request cannot succeed.
var ErrSectionNotFound = errors.New("section not found")

// SectionRecord is one named, independently regenerable block of a document.
type SectionRecord struct {
  Text               string    `json:"text"`
  SourcePrompt       string    `json:"prompt"`
  IsGenerated        bool      `json:"is_generated"`
  LastRegeneratedAt  time.Time `json:"last_regenerated"`
  ContentFingerprint string    `json:"fingerprint"`
}

type SectionMap map[string]SectionRecord

// VersionEntry is one append-only history record. SectionKey is empty for
// whole-document snapshots (initial generation).
type VersionEntry struct {
  VersionNumber     int       `json:"version_number"`
  SectionKey        string    `json:"section_key,omitempty"`
  PreviousText      string    `json:"previous_text,omitempty"`
  NewText           string    `json:"new_text,omitempty"`
  ChangeDescription string    `json:"change_description"`
  ActorID           uuid.UUID `json:"actor_id"`
  CreatedAt         time.Time `json:"created_at"`
}

// DocumentState is the reconciler's view of a document: the section map,
// the version log, and the identity hash over the whole section map.
// CurrentVersion always equals the version number of the latest entry.
type DocumentState struct {
  Sections       SectionMap
  Versions       []VersionEntry
  CurrentVersion int
  Fingerprint    string
}

// NewDocumentState builds the initial state from a segmented result. Every
// section present in the result becomes a generated record carrying the
// exact prompt that produced it; version 1 is a whole-document snapshot.
func NewDocumentState(segments map[string]string, prompt string, actorID uuid.UUID, now time.Time) DocumentState {
  sections := make(SectionMap, len(segments))
  for key, text := range segments {
    sections[key] = SectionRecord{
      Text:               text,
      SourcePrompt:       prompt,
      IsGenerated:        true,
      LastRegeneratedAt:  now,
      ContentFingerprint: Fingerprint(text),
    }
  }
  return DocumentState{
    Sections: sections,
    Versions: []VersionEntry{{
      VersionNumber:     1,
      ChangeDescription: "Initial generation",
      ActorID:           actorID,
      CreatedAt:         now,
    }},
    CurrentVersion: 1,
    Fingerprint:    sectionMapFingerprint(sections),
  }
}

// RegenerateResult reports what ApplyRegenerate did. NoOp means the new text
// was byte-identical (by fingerprint) to the stored section: the state is
// untouched and no version entry was appended.
type RegenerateResult struct {
  NoOp   bool
  Record SectionRecord
  Entry  *VersionEntry
}

// ApplyRegenerate replaces exactly one section, preserving all others. The
// stored SourcePrompt survives regeneration so later regenerations still see
// the original generation intent. Either the record, the version entry and
// the fingerprints all change together, or nothing changes.
func (s *DocumentState) ApplyRegenerate(sectionKey, newText, changeDescription string, actorID uuid.UUID, now time.Time) (RegenerateResult, error) {
  record, ok := s.Sections[sectionKey]
  if !ok || record.Text == "" {
    return RegenerateResult{}, ErrSectionNotFound
  }

  newFingerprint := Fingerprint(newText)
  if newFingerprint == record.ContentFingerprint {
    return RegenerateResult{NoOp: true, Record: record}, nil
  }

  previousText := record.Text
  record.Text = newText
  record.IsGenerated = true
  record.LastRegeneratedAt = now
  record.ContentFingerprint = newFingerprint
  s.Sections[sectionKey] = record
  s.Fingerprint = sectionMapFingerprint(s.Sections)

  entry := VersionEntry{
    VersionNumber:     s.CurrentVersion + 1,
    SectionKey:        sectionKey,
    PreviousText:      previousText,
    NewText:           newText,
    ChangeDescription: changeDescription,
    ActorID:           actorID,
    CreatedAt:         now,
  }
  s.Versions = append(s.Versions, entry)
  s.CurrentVersion++

  return RegenerateResult{Record: record, Entry: &entry}, nil
}

// HasSection reports whether the document holds non-empty text for the key.
func (s *DocumentState) HasSection(sectionKey string) bool {
  record, ok := s.Sections[sectionKey]
  return ok && record.Text != ""
}

func sectionMapFingerprint(sections SectionMap) string {
  texts := make(map[string]string, len(sections))
  for key, record := range sections {
    texts[key] = record.Text
  }
  return DocumentFingerprint(texts)
}
