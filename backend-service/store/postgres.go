package store

import (
	"context"
	"errors"

	"github.com/xxcode2/shadowpay-sub000/backend-service/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresStore struct {
	db *gorm.DB
}

func OpenPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Link{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Create(ctx context.Context, link model.Link) (model.Link, error) {
	if err := s.db.WithContext(ctx).Create(&link).Error; err != nil {
		return model.Link{}, err
	}
	return link, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (model.Link, error) {
	var link model.Link
	err := s.db.WithContext(ctx).First(&link, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Link{}, ErrNotFound
	}
	if err != nil {
		return model.Link{}, err
	}
	return link, nil
}

// UpdateIfStatus takes a FOR UPDATE row lock so the status check and the
// write are one atomic step; a concurrent writer blocks on the lock and then
// fails the status check.
func (s *PostgresStore) UpdateIfStatus(ctx context.Context, id string, expected model.LinkStatus, mutate func(*model.Link)) (model.Link, error) {
	var out model.Link
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link model.Link
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&link, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if link.Status != expected {
			return ErrStatusConflict
		}
		mutate(&link)
		if err := tx.Save(&link).Error; err != nil {
			return err
		}
		out = link
		return nil
	})
	if err != nil {
		return model.Link{}, err
	}
	return out, nil
}

func (s *PostgresStore) ListByCreator(ctx context.Context, creatorID string) ([]model.Link, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if creatorID != "" {
		q = q.Where("creator_id = ?", creatorID)
	}
	var links []model.Link
	if err := q.Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
