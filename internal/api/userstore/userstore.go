// Package userstore persists operator accounts for the HTTP API layer,
// independent of the planning engine's own sources package.
package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	apimodels "github.com/oleamind/cropplanner/internal/api/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("userstore: account not found")

// Store persists and retrieves operator accounts.
type Store struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{DB: db} }

// Migrate creates the account/session tables.
func (s *Store) Migrate() error {
	if err := s.DB.AutoMigrate(&apimodels.User{}, &apimodels.Session{}); err != nil {
		return fmt.Errorf("userstore: migrate: %w", err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, u *apimodels.User) error {
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("userstore: create account: %w", err)
	}
	return nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (apimodels.User, error) {
	var u apimodels.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apimodels.User{}, ErrNotFound
		}
		return apimodels.User{}, fmt.Errorf("userstore: find by email: %w", err)
	}
	return u, nil
}

func (s *Store) FindByID(ctx context.Context, id uint) (apimodels.User, error) {
	var u apimodels.User
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apimodels.User{}, ErrNotFound
		}
		return apimodels.User{}, fmt.Errorf("userstore: find by id: %w", err)
	}
	return u, nil
}

func (s *Store) RecordLogin(ctx context.Context, u *apimodels.User) error {
	now := time.Now()
	u.LastLogin = &now
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return fmt.Errorf("userstore: record login: %w", err)
	}
	return nil
}
