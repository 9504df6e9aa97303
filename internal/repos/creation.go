package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/lessonforge/lessonforge-backend/internal/logger"
  "github.com/lessonforge/lessonforge-backend/internal/types"
)

// ListFilter narrows List and Count. Zero values mean "no filter".
type ListFilter struct {
  OwnerID   uuid.UUID
  Template  string
  Published *bool
  Limit     int
  Offset    int
}

type CreationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, creations []*types.Creation) ([]*types.Creation, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, creationIDs []uuid.UUID) ([]*types.Creation, error)
  Update(ctx context.Context, tx *gorm.DB, creation *types.Creation) error
  Delete(ctx context.Context, tx *gorm.DB, creationID uuid.UUID) error
  List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Creation, error)
  Count(ctx context.Context, tx *gorm.DB, filter ListFilter) (int64, error)
  FindDuplicate(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, title, template, fingerprint string) (*types.Creation, error)
}

type creationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCreationRepo(db *gorm.DB, baseLog *logger.Logger) CreationRepo {
  repoLog := baseLog.With("repo", "CreationRepo")
  return &creationRepo{db: db, log: repoLog}
}

func (cr *creationRepo) Create(ctx context.Context, tx *gorm.DB, creations []*types.Creation) ([]*types.Creation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if len(creations) == 0 {
    return []*types.Creation{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&creations).Error; err != nil {
    return nil, err
  }

  return creations, nil
}

func (cr *creationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, creationIDs []uuid.UUID) ([]*types.Creation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Creation

  if len(creationIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", creationIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *creationRepo) Update(ctx context.Context, tx *gorm.DB, creation *types.Creation) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  return transaction.WithContext(ctx).Save(creation).Error
}

func (cr *creationRepo) Delete(ctx context.Context, tx *gorm.DB, creationID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  return transaction.WithContext(ctx).
    Where("id = ?", creationID).
    Delete(&types.Creation{}).Error
}

func (cr *creationRepo) List(ctx context.Context, tx *gorm.DB, filter ListFilter) ([]*types.Creation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Creation
  query := applyFilter(transaction.WithContext(ctx), filter).
    Order("updated_at DESC")
  if filter.Limit > 0 {
    query = query.Limit(filter.Limit)
  }
  if filter.Offset > 0 {
    query = query.Offset(filter.Offset)
  }
  if err := query.Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *creationRepo) Count(ctx context.Context, tx *gorm.DB, filter ListFilter) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var count int64
  if err := applyFilter(transaction.WithContext(ctx).Model(&types.Creation{}), filter).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

// FindDuplicate locates an existing creation for the same owner, title,
// template and content fingerprint. A nil result with a nil error means no
// duplicate exists.
func (cr *creationRepo) FindDuplicate(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, title, template, fingerprint string) (*types.Creation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Creation
  if err := transaction.WithContext(ctx).
    Where("created_by = ? AND title = ? AND template = ? AND content_fingerprint = ?", ownerID, title, template, fingerprint).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func applyFilter(query *gorm.DB, filter ListFilter) *gorm.DB {
  if filter.OwnerID != uuid.Nil {
    query = query.Where("created_by = ?", filter.OwnerID)
  }
  if filter.Template != "" {
    query = query.Where("template = ?", filter.Template)
  }
  if filter.Published != nil {
    query = query.Where("published = ?", *filter.Published)
  }
  return query
}
