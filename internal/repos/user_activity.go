package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/lessonforge/lessonforge-backend/internal/logger"
  "github.com/lessonforge/lessonforge-backend/internal/types"
)

type UserActivityRepo interface {
  Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error)
  CountSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activities []string, since time.Time) (int64, error)
}

type userActivityRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
  repoLog := baseLog.With("repo", "UserActivityRepo")
  return &userActivityRepo{db: db, log: repoLog}
}

func (ar *userActivityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  if len(activities) == 0 {
    return []*types.UserActivity{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&activities).Error; err != nil {
    return nil, err
  }

  return activities, nil
}

func (ar *userActivityRepo) CountSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activities []string, since time.Time) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.UserActivity{}).
    Where("user_id = ? AND activity IN ? AND created_at >= ?", userID, activities, since).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
