package content

import (
  "crypto/sha256"
  "encoding/hex"
  "sort"
  "strings"
)

// Fingerprint hashes the trimmed text so that regenerations differing only
// in surrounding whitespace count as unchanged.
func Fingerprint(text string) string {
  h := sha256.Sum256([]byte(strings.TrimSpace(text)))
  return hex.EncodeToString(h[:])
}

// DocumentFingerprint hashes the whole section map in key order, giving a
// stable identity for duplicate-submission detection.
func DocumentFingerprint(sections map[string]string) string {
  keys := make([]string, 0, len(sections))
  for key := range sections {
    keys = append(keys, key)
  }
  sort.Strings(keys)

  h := sha256.New()
  for _, key := range keys {
    h.Write([]byte(key))
    h.Write([]byte{0})
    h.Write([]byte(strings.TrimSpace(sections[key])))
    h.Write([]byte{0})
  }
  return hex.EncodeToString(h.Sum(nil))
}
