package services

import (
  "context"
  "errors"
  "time"

  "github.com/google/uuid"

  "github.com/lessonforge/lessonforge-backend/internal/clients/redis"
  "github.com/lessonforge/lessonforge-backend/internal/logger"
  "github.com/lessonforge/lessonforge-backend/internal/repos"
  "github.com/lessonforge/lessonforge-backend/internal/types"
)

// ErrDailyLimitReached means the user spent today's AI generation budget.
var ErrDailyLimitReached = errors.New("daily generation limit reached")

// UsageService tracks per-user AI generation consumption. The counter lives
// in redis; when redis is absent or failing, the activity table is counted
// instead so limits still hold.
type UsageService interface {
  ConsumeGeneration(ctx context.Context, userID uuid.UUID, limit int) (used int64, err error)
  UsedToday(ctx context.Context, userID uuid.UUID) (int64, error)
  RecordActivity(ctx context.Context, userID, creationID uuid.UUID, activity string) error
}

type usageService struct {
  log          *logger.Logger
  limiter      redis.DailyLimiter
  activityRepo repos.UserActivityRepo
}

// NewUsageService accepts a nil limiter; the service then runs entirely on
// the activity table.
func NewUsageService(limiter redis.DailyLimiter, activityRepo repos.UserActivityRepo, log *logger.Logger) UsageService {
  return &usageService{
    log:          log.With("service", "UsageService"),
    limiter:      limiter,
    activityRepo: activityRepo,
  }
}

// ConsumeGeneration claims one generation slot, returning the count used so
// far today including this one. limit 0 means unlimited; limit < 0 denies
// outright.
func (us *usageService) ConsumeGeneration(ctx context.Context, userID uuid.UUID, limit int) (int64, error) {
  if limit < 0 {
    return 0, ErrDailyLimitReached
  }

  if us.limiter != nil {
    used, err := us.limiter.IncrToday(ctx, userID.String())
    if err == nil {
      if limit > 0 && used > int64(limit) {
        return used, ErrDailyLimitReached
      }
      return used, nil
    }
    us.log.Warn("Redis usage counter unavailable, falling back to activity count", "error", err)
  }

  used, err := us.countActivityToday(ctx, userID)
  if err != nil {
    return 0, err
  }
  if limit > 0 && used >= int64(limit) {
    return used, ErrDailyLimitReached
  }
  return used + 1, nil
}

func (us *usageService) UsedToday(ctx context.Context, userID uuid.UUID) (int64, error) {
  if us.limiter != nil {
    used, err := us.limiter.CountToday(ctx, userID.String())
    if err == nil {
      return used, nil
    }
    us.log.Warn("Redis usage counter unavailable, falling back to activity count", "error", err)
  }
  return us.countActivityToday(ctx, userID)
}

func (us *usageService) RecordActivity(ctx context.Context, userID, creationID uuid.UUID, activity string) error {
  _, err := us.activityRepo.Create(ctx, nil, []*types.UserActivity{{
    ID:         uuid.New(),
    UserID:     userID,
    Activity:   activity,
    CreationID: creationID,
    CreatedAt:  time.Now(),
  }})
  return err
}

func (us *usageService) countActivityToday(ctx context.Context, userID uuid.UUID) (int64, error) {
  now := time.Now()
  midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
  return us.activityRepo.CountSince(ctx, nil, userID, []string{types.ActivityGenerate, types.ActivityRegenerate}, midnight)
}
