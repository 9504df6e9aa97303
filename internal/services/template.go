package services

import (
  "github.com/lessonforge/lessonforge-backend/internal/content"
  "github.com/lessonforge/lessonforge-backend/internal/logger"
)

// TemplateSection is one section a template produces, with its display title.
type TemplateSection struct {
  Key   string `json:"key"`
  Title string `json:"title"`
}

// TemplateInfo describes one generation template for clients.
type TemplateInfo struct {
  ID       string            `json:"id"`
  Name     string            `json:"name"`
  Sections []TemplateSection `json:"sections"`
}

type TemplateService interface {
  List() []TemplateInfo
  Get(templateID string) (TemplateInfo, bool)
}

type templateService struct {
  log *logger.Logger
}

func NewTemplateService(log *logger.Logger) TemplateService {
  return &templateService{log: log.With("service", "TemplateService")}
}

var templateNames = map[string]string{
  content.TemplateLessonPlan:      "Lesson Plan",
  content.TemplateUnitPlan:        "Unit Plan",
  content.TemplateQuiz:            "Quiz",
  content.TemplateProject:         "Project",
  content.TemplateGagneLessonPlan: "Gagne Lesson Plan",
  content.TemplateDebate:          "Debate",
  content.TemplateBlank:           "Blank Document",
}

func (ts *templateService) List() []TemplateInfo {
  ids := content.Templates()
  infos := make([]TemplateInfo, 0, len(ids))
  for _, id := range ids {
    info, _ := ts.Get(id)
    infos = append(infos, info)
  }
  return infos
}

func (ts *templateService) Get(templateID string) (TemplateInfo, bool) {
  name, known := templateNames[templateID]
  if !known {
    name = "Custom"
  }
  entries := content.SectionsFor(templateID)
  sections := make([]TemplateSection, 0, len(entries))
  for _, entry := range entries {
    sections = append(sections, TemplateSection{
      Key:   entry.Key,
      Title: content.SectionTitle(entry.Key),
    })
  }
  return TemplateInfo{ID: templateID, Name: name, Sections: sections}, known
}
