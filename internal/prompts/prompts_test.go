package prompts

import (
	"strings"
	"testing"

	"github.com/lessonforge/lessonforge-backend/internal/content"
)

func baseInput(templateID string) Input {
	return Input{
		Template:     templateID,
		Title:        "States of Matter",
		Grade:        "6",
		Subject:      "Science",
		Curriculum:   "CBSE",
		Topics:       []string{"solids", "liquids"},
		Duration:     45,
		Sessions:     5,
		Difficulty:   "Medium",
		NumQuestions: 10,
	}
}

func TestGeneration_LessonPlanCarriesCatalogHeadings(t *testing.T) {
	prompt := Generation(baseInput(content.TemplateLessonPlan))
	for _, entry := range content.SectionsFor(content.TemplateLessonPlan) {
		if !strings.Contains(prompt, entry.Heading) {
			t.Fatalf("lesson plan prompt missing heading %q", entry.Heading)
		}
	}
	if !strings.Contains(prompt, "States of Matter") || !strings.Contains(prompt, "solids, liquids") {
		t.Fatalf("prompt missing request fields")
	}
}

func TestGeneration_QuizSpecifiesGrammar(t *testing.T) {
	prompt := Generation(baseInput(content.TemplateQuiz))
	for _, marker := range []string{"Q1.", "A)", "D)", `"Correct: [Letter]"`, "Explanation:"} {
		if !strings.Contains(prompt, marker) {
			t.Fatalf("quiz prompt missing marker %q", marker)
		}
	}
	if !strings.Contains(prompt, "Create 10 multiple choice questions") {
		t.Fatalf("quiz prompt missing question count")
	}
}

func TestGeneration_EveryTemplateCarriesItsHeadings(t *testing.T) {
	for _, templateID := range []string{
		content.TemplateProject,
		content.TemplateUnitPlan,
		content.TemplateGagneLessonPlan,
		content.TemplateDebate,
	} {
		prompt := Generation(baseInput(templateID))
		for _, entry := range content.SectionsFor(templateID) {
			if !strings.Contains(strings.ToUpper(prompt), entry.Heading) {
				t.Fatalf("template %q prompt missing heading %q", templateID, entry.Heading)
			}
		}
	}
}

func TestGeneration_UnknownTemplateFallsBack(t *testing.T) {
	prompt := Generation(baseInput("something_custom"))
	if !strings.Contains(prompt, "States of Matter") || !strings.Contains(prompt, "CBSE") {
		t.Fatalf("fallback prompt missing request fields: %q", prompt)
	}
}

func TestRegeneration_CarriesContext(t *testing.T) {
	prompt := Regeneration("objectives", RegenerationContext{
		Title:      "States of Matter",
		Grade:      "6",
		Subject:    "Science",
		Curriculum: "CBSE",
		Template:   content.TemplateLessonPlan,
		Duration:   45,
		Topics:     []string{"solids"},
	}, "the original prompt", "the current section text", "Add an experiment")

	for _, want := range []string{
		"Learning Objectives",
		"ORIGINAL PROMPT: the original prompt",
		"CURRENT CONTENT: the current section text",
		"IMPROVEMENT REQUEST: Add an experiment",
		"Lesson: States of Matter",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("regeneration prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestRegeneration_DefaultTweak(t *testing.T) {
	prompt := Regeneration("warmup", RegenerationContext{Title: "T"}, "p", "c", "   ")
	if !strings.Contains(prompt, "Please improve this section with more engaging and effective content.") {
		t.Fatalf("expected default improvement request:\n%s", prompt)
	}
}
