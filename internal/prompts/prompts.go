package prompts

import (
  "fmt"
  "strings"

  "github.com/lessonforge/lessonforge-backend/internal/content"
)

// Input carries the normalized generation parameters. Normalization happens
// upstream; builders assume every field already holds a usable value.
type Input struct {
  Template               string
  Title                  string
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

// Generation renders the full generation prompt for a template. The section
// headings embedded here are the same headings the section catalog matches
// on, which is what makes segmentation of the response reliable.
func Generation(in Input) string {
  topics := strings.Join(in.Topics, ", ")
  switch in.Template {
  case content.TemplateLessonPlan:
    return fmt.Sprintf(`You are an expert %s curriculum designer for grade %s %s. Create a comprehensive lesson plan that is practical and classroom-ready.

TOPIC: %s
GRADE: %s
SUBJECT: %s
CURRICULUM: %s
DURATION: %d minutes
KEY TOPICS: %s
ADDITIONAL REQUIREMENTS: %s

Please structure the lesson plan with these clear sections:

LEARNING OBJECTIVES
[3-5 clear, measurable objectives that align with %s standards]

PRIOR KNOWLEDGE
[What students should already know to be successful]

WARM-UP ACTIVITY (5-7 minutes)
[Engaging starter activity to hook students]

INTRODUCTION (10-12 minutes)
[Sets context and connects to real-world applications]

MAIN ACTIVITIES (20-25 minutes)
[Hands-on, interactive activities with clear instructions]

ASSESSMENT STRATEGIES
[Both formative and summative assessment ideas]

RESOURCES AND MATERIALS
[Specific resources needed for the lesson]

DIFFERENTIATION STRATEGIES
[Support for struggling students and extensions for advanced learners]

HOMEWORK/EXTENSION ACTIVITIES
[Meaningful reinforcement tasks]

Ensure the content is age-appropriate for grade %s and strictly follows %s guidelines.`,
      in.Curriculum, in.Grade, in.Subject,
      in.Title, in.Grade, in.Subject, in.Curriculum, in.Duration, topics, in.AdditionalInstructions,
      in.Curriculum, in.Grade, in.Curriculum)

  case content.TemplateQuiz:
    return fmt.Sprintf(`You are an experienced %s assessment specialist for grade %s %s. Create high-quality multiple choice questions.

TOPIC: %s
GRADE: %s
SUBJECT: %s
CURRICULUM: %s
DIFFICULTY: %s
QUESTIONS: %d
DURATION: %d minutes
TOPICS: %s

Create %d multiple choice questions with this exact format:

Q1. [Clear question stem that tests understanding]
A) [Plausible option A]
B) [Plausible option B]
C) [Plausible option C]
D) [Plausible option D]
Correct: [Letter of correct answer]
Explanation: [Brief explanation why this is correct]

Q2. [Next question...]

Requirements:
- %d questions total
- 4 plausible options for each question
- Mark correct answer with "Correct: [Letter]"
- Include brief explanation for each
- Mix of factual recall (30%%), understanding (40%%), and application (30%%)
- Appropriate for %s difficulty level
- Align with %s standards for grade %s
- Return ONLY the questions in the specified format, no introductory text`,
      in.Curriculum, in.Grade, in.Subject,
      in.Title, in.Grade, in.Subject, in.Curriculum, in.Difficulty, in.NumQuestions, in.Duration, topics,
      in.NumQuestions, in.NumQuestions, in.Difficulty, in.Curriculum, in.Grade)

  case content.TemplateProject:
    return fmt.Sprintf(`You are a project-based learning specialist for %s grade %s %s. Design an engaging, practical project.

TOPIC: %s
GRADE: %s
SUBJECT: %s
CURRICULUM: %s
DURATION: %d days
FOCUS AREAS: %s
ADDITIONAL: %s

Create a comprehensive project plan with these sections:

PROJECT OBJECTIVES
[Clear learning goals and success criteria aligned with %s]

PROCEDURE
[Step-by-step instructions with day-wise breakdown for %d days]

MATERIALS REQUIRED
[Specific materials and resources needed]

EXPECTED OUTCOMES
[What students should produce and learn]

EVALUATION CRITERIA
[Detailed rubric with clear assessment criteria]

TIMELINE
[Project milestones and deadlines]

Make the project hands-on, engaging, and achievable for grade %s students.`,
      in.Curriculum, in.Grade, in.Subject,
      in.Title, in.Grade, in.Subject, in.Curriculum, in.Duration, topics, in.AdditionalInstructions,
      in.Curriculum, in.Duration, in.Grade)

  case content.TemplateUnitPlan:
    return fmt.Sprintf(`You are a unit planning expert for %s grade %s %s. Create a comprehensive unit plan.

TOPIC: %s
GRADE: %s
SUBJECT: %s
CURRICULUM: %s
SESSIONS: %d
KEY CONCEPTS: %s

Create a %d-session unit plan with:

UNIT OVERVIEW
[Big ideas and central concepts]

ESSENTIAL QUESTIONS
[3-5 guiding questions that drive inquiry]

LEARNING GOALS
[What students will know and be able to do]

SESSION BREAKDOWN
[Detailed plan for each of the %d sessions]

ASSESSMENT STRATEGIES
[Formative and summative assessments throughout the unit]

RESOURCES
[Materials and resources needed]

DIFFERENTIATION
[Strategies for diverse learners]

Ensure progressive complexity across the %d sessions.`,
      in.Curriculum, in.Grade, in.Subject,
      in.Title, in.Grade, in.Subject, in.Curriculum, in.Sessions, topics,
      in.Sessions, in.Sessions, in.Sessions)

  case content.TemplateGagneLessonPlan:
    return fmt.Sprintf(`You are an instructional design expert using Gagne's Nine Events. Create a structured lesson plan.

TOPIC: %s
GRADE: %s
SUBJECT: %s
CURRICULUM: %s
DURATION: %d minutes

Follow Gagne's Nine Events structure with timing:

1. GAIN ATTENTION (5 minutes)
   [Hook students with engaging starter]

2. INFORM OBJECTIVES (3 minutes)
   [Clearly state what students will learn]

3. STIMULATE RECALL (7 minutes)
   [Activate prior knowledge]

4. PRESENT CONTENT (15 minutes)
   [Deliver new information effectively]

5. PROVIDE GUIDANCE (10 minutes)
   [Scaffold learning with examples]

6. ELICIT PERFORMANCE (15 minutes)
   [Students practice and apply]

7. PROVIDE FEEDBACK (10 minutes)
   [Correct and reinforce learning]

8. ASSESS PERFORMANCE (10 minutes)
   [Evaluate understanding]

9. ENHANCE RETENTION (5 minutes)
   [Transfer learning to new contexts]

Make each event clear and pedagogically sound for grade %s.`,
      in.Title, in.Grade, in.Subject, in.Curriculum, in.Duration, in.Grade)

  case content.TemplateDebate:
    return fmt.Sprintf(`You are a debate coordinator for %s grade %s %s. Design a structured debate.

TOPIC: %s
GRADE: %s
SUBJECT: %s
CURRICULUM: %s
DURATION: %d minutes

Create a comprehensive debate structure:

DEBATE PROPOSITION
[Clear statement to debate]

ARGUMENTS FOR (PROS)
[3-5 strong arguments with supporting evidence]

ARGUMENTS AGAINST (CONS)
[3-5 strong counter-arguments with evidence]

MODERATOR GUIDELINES
[Script and instructions for moderator]

EVALUATION CRITERIA
[Rubric for judging the debate]

TIMING STRUCTURE
[Detailed timing for each phase]

Ensure balanced perspectives and age-appropriate complexity.`,
      in.Curriculum, in.Grade, in.Subject,
      in.Title, in.Grade, in.Subject, in.Curriculum, in.Duration)

  default:
    return fmt.Sprintf(`Create comprehensive educational content for %s curriculum, Grade %s %s on topic "%s".

Additional Instructions: %s
Topics: %s

Create engaging, age-appropriate content that aligns with %s standards.`,
      in.Curriculum, in.Grade, in.Subject, in.Title,
      in.AdditionalInstructions, topics, in.Curriculum)
  }
}

// RegenerationContext describes the document a single section belongs to.
type RegenerationContext struct {
  Title             string
  Grade             string
  Subject           string
  Curriculum        string
  Template          string
  Duration          int
  Topics            []string
  AdditionalDetails string
}

// Regeneration renders the prompt for replacing one section. It carries the
// original generation prompt and the current content so the model improves
// in place instead of drifting from the rest of the document.
func Regeneration(sectionKey string, ctx RegenerationContext, originalPrompt, currentContent, tweak string) string {
  if strings.TrimSpace(tweak) == "" {
    tweak = "Please improve this section with more engaging and effective content."
  }

  var b strings.Builder
  fmt.Fprintf(&b, "Lesson: %s\n", ctx.Title)
  fmt.Fprintf(&b, "Grade: %s\n", ctx.Grade)
  fmt.Fprintf(&b, "Subject: %s\n", ctx.Subject)
  fmt.Fprintf(&b, "Curriculum: %s\n", ctx.Curriculum)
  fmt.Fprintf(&b, "Template: %s\n", ctx.Template)
  if ctx.Duration > 0 {
    fmt.Fprintf(&b, "Duration: %d minutes\n", ctx.Duration)
  }
  if len(ctx.Topics) > 0 {
    fmt.Fprintf(&b, "Topics: %s\n", strings.Join(ctx.Topics, ", "))
  }
  if ctx.AdditionalDetails != "" {
    fmt.Fprintf(&b, "Additional Details: %s\n", ctx.AdditionalDetails)
  }

  return fmt.Sprintf(`You are an educational content expert. Regenerate the %s section.

CONTEXT: %s
ORIGINAL PROMPT: %s
CURRENT CONTENT: %s
IMPROVEMENT REQUEST: %s

Please provide an enhanced version that:
- Maintains educational standards and alignment with the context
- Is more engaging, effective, and age-appropriate
- Incorporates the requested improvements
- Maintains consistency with the overall lesson

Provide only the regenerated content without additional explanations.`,
    content.SectionTitle(sectionKey), strings.TrimSpace(b.String()), originalPrompt, currentContent, tweak)
}
