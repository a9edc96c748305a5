package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"papuanews/internal/config"
	"papuanews/internal/types"
)

// GormStore backs the article store with SQLite or Postgres through gorm.
type GormStore struct {
	db     *gorm.DB
	driver string
	logger *slog.Logger
}

// OpenGorm connects to the configured SQL database and migrates the
// article table.
func OpenGorm(cfg config.StoreConfig, logger *slog.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("gorm store: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", cfg.Driver, err)
	}
	if err := db.AutoMigrate(&StoredArticle{}); err != nil {
		return nil, fmt.Errorf("%s migrate: %w", cfg.Driver, err)
	}

	return &GormStore{
		db:     db,
		driver: cfg.Driver,
		logger: logger.With("component", "store", "driver", cfg.Driver),
	}, nil
}

func (s *GormStore) Name() string { return s.driver }

func (s *GormStore) FindBySourceURL(ctx context.Context, url string) (*StoredArticle, error) {
	var row StoredArticle
	err := s.db.WithContext(ctx).Where("source_url = ?", url).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "find", Err: err}
	}
	return &row, nil
}

func (s *GormStore) FindByID(ctx context.Context, id uint) (*StoredArticle, error) {
	var row StoredArticle
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, &types.StoreError{Op: "find", Err: err}
	}
	return &row, nil
}

func (s *GormStore) Insert(ctx context.Context, a *StoredArticle) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return &types.StoreError{Op: "insert", Err: err}
	}
	return nil
}

func (s *GormStore) UpdateFields(ctx context.Context, url string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Model(&StoredArticle{}).
		Where("source_url = ?", url).
		Updates(fields).Error
	if err != nil {
		return &types.StoreError{Op: "update", Err: err}
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, filter ListFilter) ([]StoredArticle, error) {
	q := s.query(ctx, filter).Order("published_at DESC NULLS LAST").Order("id DESC")
	if s.driver == "sqlite" {
		// SQLite has no NULLS LAST; nulls sort first under DESC so push
		// them to the tail explicitly.
		q = s.query(ctx, filter).
			Order("published_at IS NULL").
			Order("published_at DESC").
			Order("id DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var rows []StoredArticle
	if err := q.Find(&rows).Error; err != nil {
		return nil, &types.StoreError{Op: "list", Err: err}
	}
	return rows, nil
}

func (s *GormStore) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var n int64
	if err := s.query(ctx, filter).Model(&StoredArticle{}).Count(&n).Error; err != nil {
		return 0, &types.StoreError{Op: "count", Err: err}
	}
	return n, nil
}

func (s *GormStore) query(ctx context.Context, filter ListFilter) *gorm.DB {
	q := s.db.WithContext(ctx)
	if filter.Region != "" {
		q = q.Where("region = ?", filter.Region)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	return q
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	s.logger.Info("store closing")
	return sqlDB.Close()
}
