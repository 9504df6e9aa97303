package normalization

import (
  "strings"
)

func ParseInputString(input string) string {
  return strings.ToLower(strings.TrimSpace(input))
}

// DefaultString returns fallback when the input is empty after trimming.
func DefaultString(input, fallback string) string {
  trimmed := strings.TrimSpace(input)
  if trimmed == "" {
    return fallback
  }
  return trimmed
}

// DefaultInt returns fallback when the input is not a positive integer.
func DefaultInt(input, fallback int) int {
  if input <= 0 {
    return fallback
  }
  return input
}

// NormalizeTopics collapses free-form topic input into a non-empty topic list.
// "all", "all topics" and blank input all mean the generic bucket.
func NormalizeTopics(topics []string) []string {
  cleaned := make([]string, 0, len(topics))
  for _, t := range topics {
    t = strings.TrimSpace(t)
    if t == "" {
      continue
    }
    if strings.Contains(strings.ToLower(t), "all") {
      continue
    }
    cleaned = append(cleaned, t)
  }
  if len(cleaned) == 0 {
    return []string{"General concepts"}
  }
  return cleaned
}

// SplitTopics parses a comma separated topic string into a normalized list.
func SplitTopics(raw string) []string {
  return NormalizeTopics(strings.Split(raw, ","))
}
