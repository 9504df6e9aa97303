package content

import (
  "strings"
)

// Template ids known to the platform. Anything else is treated as a
// free-form document with a single catch-all section.
const (
  TemplateLessonPlan      = "lesson_plan"
  TemplateUnitPlan        = "unit_plan"
  TemplateQuiz            = "quiz"
  TemplateProject         = "project"
  TemplateGagneLessonPlan = "gagne_lesson_plan"
  TemplateDebate          = "debate"
  TemplateBlank           = "blank"
)

// SectionContent is the catch-all section key used for unknown templates and
// for prose that precedes any recognized heading.
const SectionContent = "content"

// Section keys derived by the quiz grammar rather than heading matching.
const (
  SectionQuestions = "questions"
  SectionAnswerKey = "answerKey"
)

// CatalogEntry binds a section key to the heading text the generator is
// instructed to emit for it. Entries are consumed in declared order.
type CatalogEntry struct {
  Key     string
  Heading string
}

var sectionCatalog = map[string][]CatalogEntry{
  TemplateLessonPlan: {
    {Key: "objectives", Heading: "LEARNING OBJECTIVES"},
    {Key: "priorKnowledge", Heading: "PRIOR KNOWLEDGE"},
    {Key: "warmup", Heading: "WARM-UP ACTIVITY"},
    {Key: "introduction", Heading: "INTRODUCTION"},
    {Key: "mainActivities", Heading: "MAIN ACTIVITIES"},
    {Key: "assessment", Heading: "ASSESSMENT STRATEGIES"},
    {Key: "resources", Heading: "RESOURCES AND MATERIALS"},
    {Key: "differentiation", Heading: "DIFFERENTIATION STRATEGIES"},
    {Key: "homework", Heading: "HOMEWORK/EXTENSION ACTIVITIES"},
  },
  TemplateProject: {
    {Key: "objectives", Heading: "PROJECT OBJECTIVES"},
    {Key: "procedure", Heading: "PROCEDURE"},
    {Key: "materials", Heading: "MATERIALS REQUIRED"},
    {Key: "outcomes", Heading: "EXPECTED OUTCOMES"},
    {Key: "evaluation", Heading: "EVALUATION CRITERIA"},
    {Key: "timeline", Heading: "TIMELINE"},
  },
  TemplateUnitPlan: {
    {Key: "overview", Heading: "UNIT OVERVIEW"},
    {Key: "essentialQuestions", Heading: "ESSENTIAL QUESTIONS"},
    {Key: "learningGoals", Heading: "LEARNING GOALS"},
    {Key: "sessionBreakdown", Heading: "SESSION BREAKDOWN"},
    {Key: "assessments", Heading: "ASSESSMENT STRATEGIES"},
    {Key: "resources", Heading: "RESOURCES"},
    {Key: "differentiation", Heading: "DIFFERENTIATION"},
  },
  TemplateGagneLessonPlan: {
    {Key: "gainAttention", Heading: "GAIN ATTENTION"},
    {Key: "informObjectives", Heading: "INFORM OBJECTIVES"},
    {Key: "stimulateRecall", Heading: "STIMULATE RECALL"},
    {Key: "presentContent", Heading: "PRESENT CONTENT"},
    {Key: "provideGuidance", Heading: "PROVIDE GUIDANCE"},
    {Key: "elicitPerformance", Heading: "ELICIT PERFORMANCE"},
    {Key: "provideFeedback", Heading: "PROVIDE FEEDBACK"},
    {Key: "assessPerformance", Heading: "ASSESS PERFORMANCE"},
    {Key: "enhanceRetention", Heading: "ENHANCE RETENTION"},
  },
  TemplateDebate: {
    {Key: "topic", Heading: "DEBATE PROPOSITION"},
    {Key: "forArguments", Heading: "ARGUMENTS FOR"},
    {Key: "againstArguments", Heading: "ARGUMENTS AGAINST"},
    {Key: "moderatorGuidelines", Heading: "MODERATOR GUIDELINES"},
    {Key: "evaluationCriteria", Heading: "EVALUATION CRITERIA"},
    {Key: "timingStructure", Heading: "TIMING STRUCTURE"},
  },
}

var sectionTitles = map[string]string{
  "objectives":          "Learning Objectives",
  "priorKnowledge":      "Prior Knowledge",
  "warmup":              "Warm-Up Activity",
  "introduction":        "Introduction",
  "mainActivities":      "Main Activities",
  "assessment":          "Assessment Strategies",
  "resources":           "Resources and Materials",
  "differentiation":     "Differentiation Strategies",
  "homework":            "Homework/Extension Activities",
  "questions":           "Questions",
  "answerKey":           "Answer Key",
  "procedure":           "Procedure",
  "materials":           "Materials Required",
  "outcomes":            "Expected Outcomes",
  "evaluation":          "Evaluation Criteria",
  "timeline":            "Timeline",
  "overview":            "Unit Overview",
  "essentialQuestions":  "Essential Questions",
  "learningGoals":       "Learning Goals",
  "sessionBreakdown":    "Session Breakdown",
  "assessments":         "Assessment Strategies",
  "gainAttention":       "Gain Attention",
  "informObjectives":    "Inform Objectives",
  "stimulateRecall":     "Stimulate Recall",
  "presentContent":      "Present Content",
  "provideGuidance":     "Provide Guidance",
  "elicitPerformance":   "Elicit Performance",
  "provideFeedback":     "Provide Feedback",
  "assessPerformance":   "Assess Performance",
  "enhanceRetention":    "Enhance Retention",
  "topic":               "Debate Proposition",
  "forArguments":        "Arguments For",
  "againstArguments":    "Arguments Against",
  "moderatorGuidelines": "Moderator Guidelines",
  "evaluationCriteria":  "Evaluation Criteria",
  "timingStructure":     "Timing Structure",
  "content":             "Content",
}

// IsQuiz reports whether the template uses the per-question grammar instead
// of heading-based segmentation.
func IsQuiz(templateID string) bool {
  return templateID == TemplateQuiz
}

// SectionsFor returns the ordered catalog entries for a template. Quiz
// templates produce their two derived sections; unknown templates (including
// "blank") fall back to the single catch-all entry. Total over all inputs.
func SectionsFor(templateID string) []CatalogEntry {
  if IsQuiz(templateID) {
    return []CatalogEntry{
      {Key: SectionQuestions, Heading: "QUESTIONS"},
      {Key: SectionAnswerKey, Heading: "ANSWER KEY"},
    }
  }
  if entries, ok := sectionCatalog[templateID]; ok {
    return entries
  }
  return []CatalogEntry{{Key: SectionContent, Heading: ""}}
}

// SectionTitle returns the display label for a section key.
func SectionTitle(key string) string {
  if title, ok := sectionTitles[key]; ok {
    return title
  }
  if key == "" {
    return ""
  }
  return strings.ToUpper(key[:1]) + key[1:]
}

// Templates lists the known template ids in a stable order.
func Templates() []string {
  return []string{
    TemplateLessonPlan,
    TemplateUnitPlan,
    TemplateQuiz,
    TemplateProject,
    TemplateGagneLessonPlan,
    TemplateDebate,
    TemplateBlank,
  }
}
