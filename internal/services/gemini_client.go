package services

import (
  "context"
  "errors"
  "fmt"
  "math/rand"
  "net"
  "os"
  "strconv"
  "strings"
  "time"

  "google.golang.org/genai"

  "github.com/lessonforge/lessonforge-backend/internal/logger"
)

// AIClient is the text generation boundary. GenerateText returns the raw
// model text; callers own parsing and persistence.
type AIClient interface {
  GenerateText(ctx context.Context, prompt string) (string, error)
  Model() string
}

type geminiClient struct {
  log    *logger.Logger
  client *genai.Client
  model  string

  maxRetries     int
  requestTimeout time.Duration
}

func NewGeminiClient(ctx context.Context, log *logger.Logger) (AIClient, error) {
  apiKey := os.Getenv("GEMINI_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing GEMINI_API_KEY")
  }

  model := os.Getenv("GEMINI_MODEL")
  if model == "" {
    model = "gemini-2.0-flash"
  }

  // IMPORTANT: default timeout higher for production generation workloads
  timeoutSec := 180
  if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  maxRetries := 4
  if v := os.Getenv("GEMINI_MAX_RETRIES"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
      maxRetries = parsed
    }
  }

  client, err := genai.NewClient(ctx, &genai.ClientConfig{
    APIKey:  apiKey,
    Backend: genai.BackendGeminiAPI,
  })
  if err != nil {
    return nil, fmt.Errorf("failed to create genai client: %w", err)
  }

  return &geminiClient{
    log:            log.With("service", "GeminiClient"),
    client:         client,
    model:          model,
    maxRetries:     maxRetries,
    requestTimeout: time.Duration(timeoutSec) * time.Second,
  }, nil
}

func (c *geminiClient) Model() string {
  return c.model
}

func (c *geminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
  // exponential backoff: 1s, 2s, 4s, 8s (cap ~10s)
  backoff := 1 * time.Second

  var lastErr error
  for attempt := 0; attempt <= c.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return "", ctx.Err()
    }

    text, err := c.generateOnce(ctx, prompt)
    if err == nil {
      return text, nil
    }
    lastErr = err

    if !isRetryableGenErr(err) {
      return "", err
    }
    if attempt == c.maxRetries {
      break
    }

    sleepFor := backoff
    if sleepFor > 10*time.Second {
      sleepFor = 10 * time.Second
    }
    sleepFor = jitterSleep(sleepFor)

    c.log.Warn("Gemini request retrying",
      "attempt", attempt+1,
      "max_retries", c.maxRetries,
      "sleep", sleepFor.String(),
      "error", err.Error(),
    )

    time.Sleep(sleepFor)
    backoff *= 2
  }

  return "", lastErr
}

func (c *geminiClient) generateOnce(ctx context.Context, prompt string) (string, error) {
  callCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
  defer cancel()

  contents := genai.Text(prompt)
  resp, err := c.client.Models.GenerateContent(callCtx, c.model, contents, nil)
  if err != nil {
    return "", err
  }
  text := resp.Text()
  if strings.TrimSpace(text) == "" {
    return "", fmt.Errorf("empty response from model %s", c.model)
  }
  return text, nil
}

func isRetryableGenErr(err error) bool {
  if err == nil {
    return false
  }
  if errors.Is(err, context.Canceled) {
    return false
  }
  if errors.Is(err, context.DeadlineExceeded) {
    return true
  }
  var netErr net.Error
  if errors.As(err, &netErr) && netErr.Timeout() {
    return true
  }
  var apiErr genai.APIError
  if errors.As(err, &apiErr) {
    code := apiErr.Code
    return code == 408 || code == 429 || (code >= 500 && code <= 599)
  }
  return false
}

func jitterSleep(base time.Duration) time.Duration {
  // +/- 20%
  if base <= 0 {
    return 0
  }
  j := 0.2
  delta := base.Seconds() * j
  low := base.Seconds() - delta
  high := base.Seconds() + delta
  if low < 0 {
    low = 0
  }
  v := low + rand.Float64()*(high-low)
  return time.Duration(v * float64(time.Second))
}
