package content

import (
  "regexp"
  "strings"
)

// Segment splits raw generated text into the sections declared for the
// template. It never fails: absent structure degrades through the fallback
// tiers until at least one non-empty section remains (for non-empty input).
// Empty or whitespace-only sections are dropped, never stored as empty.
func Segment(raw, templateID string) map[string]string {
  if IsQuiz(templateID) {
    return SegmentQuiz(raw)
  }
  entries := SectionsFor(templateID)
  if len(entries) == 1 && entries[0].Key == SectionContent {
    sections := map[string]string{}
    if text := strings.TrimSpace(raw); text != "" {
      sections[SectionContent] = text
    }
    return sections
  }
  sections := segmentByHeadings(raw, entries)
  if len(sections) == 0 {
    sections = segmentByLines(raw, entries)
  }
  return sections
}

// headingPattern matches the heading text case-insensitively with an
// optional trailing colon or dash, the way the generator tends to emit it.
func headingPattern(heading string) *regexp.Regexp {
  return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(heading) + `[:\-]?`)
}

// segmentByHeadings partitions raw strictly in catalog order: a matched
// section runs from just past its heading to the start of the next matched
// heading in declared order, or end of text. Headings emitted out of the
// declared order can therefore absorb a later section's prose; that matches
// how the generator is prompted and is accepted.
func segmentByHeadings(raw string, entries []CatalogEntry) map[string]string {
  type span struct {
    start int
    end   int
  }
  matches := make([]*span, len(entries))
  matched := false
  for i, entry := range entries {
    loc := headingPattern(entry.Heading).FindStringIndex(raw)
    if loc == nil {
      continue
    }
    matches[i] = &span{start: loc[0], end: loc[1]}
    matched = true
  }
  if !matched {
    return map[string]string{}
  }

  sections := map[string]string{}
  for i, entry := range entries {
    m := matches[i]
    if m == nil {
      continue
    }
    limit := len(raw)
    for j := i + 1; j < len(entries); j++ {
      if matches[j] != nil {
        limit = matches[j].start
        break
      }
    }
    if limit < m.end {
      continue
    }
    text := strings.TrimSpace(raw[m.end:limit])
    if text == "" {
      continue
    }
    sections[entry.Key] = text
  }
  return sections
}

type lineScanState int

const (
  seekingHeading lineScanState = iota
  inSection
)

// segmentByLines is the fallback scanner for responses whose headings never
// matched in catalog order. Any line that looks like a known heading opens
// that section regardless of declared order; everything before the first
// recognized heading lands in the catch-all content bucket.
func segmentByLines(raw string, entries []CatalogEntry) map[string]string {
  buckets := map[string][]string{}
  state := seekingHeading
  current := SectionContent

  for _, line := range strings.Split(raw, "\n") {
    if key, ok := matchHeadingLine(line, entries); ok {
      state = inSection
      current = key
      if _, exists := buckets[current]; !exists {
        buckets[current] = []string{}
      }
      continue
    }
    switch state {
    case seekingHeading:
      buckets[SectionContent] = append(buckets[SectionContent], line)
    case inSection:
      buckets[current] = append(buckets[current], line)
    }
  }

  sections := map[string]string{}
  for key, lines := range buckets {
    text := strings.TrimSpace(strings.Join(lines, "\n"))
    if text == "" {
      continue
    }
    sections[key] = text
  }
  return sections
}

// matchHeadingLine reports whether a line is one of the template's headings,
// tolerating markdown decoration and list numbering around the heading text.
func matchHeadingLine(line string, entries []CatalogEntry) (string, bool) {
  cleaned := strings.TrimSpace(line)
  cleaned = strings.TrimLeft(cleaned, "#*- ")
  if idx := listNumberRe.FindStringIndex(cleaned); idx != nil {
    cleaned = cleaned[idx[1]:]
  }
  cleaned = strings.TrimSpace(strings.Trim(cleaned, "*"))
  if cleaned == "" {
    return "", false
  }
  upper := strings.ToUpper(cleaned)
  for _, entry := range entries {
    if strings.HasPrefix(upper, strings.ToUpper(entry.Heading)) {
      return entry.Key, true
    }
  }
  return "", false
}

var listNumberRe = regexp.MustCompile(`^\d+[.)]\s*`)
