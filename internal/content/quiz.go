package content

import (
  "fmt"
  "regexp"
  "strings"
)

// answerKeyPlaceholder is emitted when no answer information could be
// recovered from the response, so callers always receive both sections.
const answerKeyPlaceholder = "Answer key could not be extracted from the generated content."

var (
  questionMarkerRe = regexp.MustCompile(`^[Qq](\d+)[.:]\s*`)
  optionRe         = regexp.MustCompile(`^([A-Da-d])[).]\s*`)
  correctRe        = regexp.MustCompile(`(?i)^Correct:\s*`)
  explanationRe    = regexp.MustCompile(`(?i)^Explanation:\s*`)
  quizSplitRe      = regexp.MustCompile(`[Qq]\d+[.:]`)
)

type quizQuestion struct {
  stem        string
  options     []string
  correct     string
  explanation string
}

type quizScanState int

const (
  seekingQuestion quizScanState = iota
  inQuestionStem
  inOptions
)

// SegmentQuiz parses multiple-choice text into the two derived sections
// "questions" and "answerKey". Source numbering is ignored; questions are
// renumbered sequentially so skipped or repeated numbers from the generator
// cannot leak into the stored document.
func SegmentQuiz(raw string) map[string]string {
  blocks := scanQuizBlocks(raw)
  if len(blocks) > 0 {
    return renderQuizSections(blocks)
  }
  if sections, ok := splitQuizChunks(raw); ok {
    return sections
  }
  sections := map[string]string{}
  if strings.TrimSpace(raw) == "" {
    return sections
  }
  sections[SectionQuestions] = raw
  sections[SectionAnswerKey] = answerKeyPlaceholder
  return sections
}

func scanQuizBlocks(raw string) []quizQuestion {
  var blocks []quizQuestion
  var current quizQuestion
  state := seekingQuestion

  flush := func() {
    if current.stem != "" && len(current.options) > 0 {
      blocks = append(blocks, current)
    }
    current = quizQuestion{}
  }

  for _, rawLine := range strings.Split(raw, "\n") {
    line := strings.TrimSpace(rawLine)
    if line == "" {
      continue
    }

    if m := questionMarkerRe.FindStringIndex(line); m != nil {
      if state != seekingQuestion {
        flush()
      }
      current.stem = strings.TrimSpace(line[m[1]:])
      state = inQuestionStem
      continue
    }
    if state == seekingQuestion {
      // introductory prose before the first question marker
      continue
    }

    if m := optionRe.FindStringSubmatchIndex(line); m != nil {
      current.options = append(current.options, strings.TrimSpace(line[m[1]:]))
      state = inOptions
      continue
    }
    if m := correctRe.FindStringIndex(line); m != nil {
      current.correct = strings.TrimSpace(line[m[1]:])
      continue
    }
    if m := explanationRe.FindStringIndex(line); m != nil {
      current.explanation = strings.TrimSpace(line[m[1]:])
      continue
    }
    if current.stem != "" && current.correct == "" {
      current.stem = current.stem + " " + line
    }
  }
  if state != seekingQuestion {
    flush()
  }
  return blocks
}

func renderQuizSections(blocks []quizQuestion) map[string]string {
  var questions strings.Builder
  var answerKey strings.Builder
  for i, block := range blocks {
    n := i + 1
    fmt.Fprintf(&questions, "Q%d. %s\n", n, block.stem)
    for j, option := range block.options {
      fmt.Fprintf(&questions, "%c) %s\n", 'A'+j, option)
    }
    questions.WriteString("\n")

    fmt.Fprintf(&answerKey, "Q%d. %s\n", n, block.stem)
    fmt.Fprintf(&answerKey, "Correct Answer: %s\n", block.correct)
    fmt.Fprintf(&answerKey, "Explanation: %s\n\n", block.explanation)
  }
  return map[string]string{
    SectionQuestions: strings.TrimSpace(questions.String()),
    SectionAnswerKey: strings.TrimSpace(answerKey.String()),
  }
}

// splitQuizChunks is the looser fallback: chop the text at question markers
// and keep each chunk verbatim, with a placeholder answer key per question.
func splitQuizChunks(raw string) (map[string]string, bool) {
  parts := quizSplitRe.Split(raw, -1)
  var chunks []string
  for _, part := range parts {
    part = strings.TrimSpace(part)
    if part == "" {
      continue
    }
    chunks = append(chunks, part)
  }
  if len(chunks) == 0 || !quizSplitRe.MatchString(raw) {
    return nil, false
  }

  var questions strings.Builder
  var answerKey strings.Builder
  for i, chunk := range chunks {
    n := i + 1
    fmt.Fprintf(&questions, "Q%d. %s\n\n", n, chunk)
    fmt.Fprintf(&answerKey, "Q%d. %s\n\n", n, answerKeyPlaceholder)
  }
  return map[string]string{
    SectionQuestions: strings.TrimSpace(questions.String()),
    SectionAnswerKey: strings.TrimSpace(answerKey.String()),
  }, true
}
