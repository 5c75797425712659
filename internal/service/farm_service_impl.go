package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/trayflow/internal/domain"
	"github.com/alexanderramin/trayflow/internal/repository"
	"github.com/google/uuid"
)

type farmService struct {
	farms repository.FarmRepo
}

func NewFarmService(farms repository.FarmRepo) FarmService {
	return &farmService{farms: farms}
}

func (s *farmService) Create(ctx context.Context, f *domain.Farm) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return fmt.Errorf("%w: farm name is required", domain.ErrInvalidInput)
	}
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	return s.farms.Create(ctx, f)
}

func (s *farmService) GetByID(ctx context.Context, id string) (*domain.Farm, error) {
	return s.farms.GetByID(ctx, id)
}

func (s *farmService) Resolve(ctx context.Context, idOrName string) (*domain.Farm, error) {
	f, err := s.farms.GetByID(ctx, idOrName)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	return s.farms.GetByName(ctx, idOrName)
}

func (s *farmService) List(ctx context.Context) ([]*domain.Farm, error) {
	return s.farms.List(ctx)
}

func (s *farmService) SetSeedingDays(ctx context.Context, farmID string, days domain.WeekdaySet) error {
	f, err := s.farms.GetByID(ctx, farmID)
	if err != nil {
		return err
	}
	f.AllowedSeedingDays = days
	f.UpdatedAt = time.Now().UTC()
	return s.farms.Update(ctx, f)
}
