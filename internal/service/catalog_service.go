package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"github.com/faroemiliano/backBarberia1991/internal/repository"
	"gorm.io/gorm"
)

// DefaultServices is the shop's standard catalog.
var DefaultServices = []models.Service{
	{Name: "Corte", Price: 15000},
	{Name: "Corte + Barba", Price: 17000},
	{Name: "Barba", Price: 13000},
	{Name: "Corte + Tintura", Price: 800},
}

type ServiceUpdate struct {
	Name   *string
	Price  *float64
	Active *bool
}

type SeedResult struct {
	Created     int `json:"created"`
	Updated     int `json:"updated"`
	Reactivated int `json:"reactivated"`
}

type CatalogService interface {
	List(ctx context.Context, onlyActive bool) ([]models.Service, error)
	Create(ctx context.Context, name string, price float64) (*models.Service, error)
	Update(ctx context.Context, id uint, in ServiceUpdate) (*models.Service, error)
	Seed(ctx context.Context) (*SeedResult, error)
}

type catalogService struct {
	uow         repository.UnitOfWork
	serviceRepo repository.ServiceRepository
	logger      *slog.Logger
}

func NewCatalogService(uow repository.UnitOfWork, serviceRepo repository.ServiceRepository, logger *slog.Logger) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{uow: uow, serviceRepo: serviceRepo, logger: logger.With("component", "catalog")}
}

func (s *catalogService) List(ctx context.Context, onlyActive bool) ([]models.Service, error) {
	services, err := s.serviceRepo.List(ctx, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (s *catalogService) Create(ctx context.Context, name string, price float64) (*models.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" || price < 0 {
		return nil, fmt.Errorf("%w: service needs a name and a non-negative price", ErrInvalidInput)
	}
	svc := &models.Service{Name: name, Price: price, Active: true}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		if err := s.serviceRepo.Create(ctx, tx, svc); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrServiceNameTaken
			}
			return fmt.Errorf("create service: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) Update(ctx context.Context, id uint, in ServiceUpdate) (*models.Service, error) {
	if in.Price != nil && *in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}

	var svc *models.Service
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		var err error
		svc, err = s.serviceRepo.FindByID(ctx, tx, id)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrServiceNotFound
			}
			return fmt.Errorf("find service: %w", err)
		}
		if in.Name != nil {
			svc.Name = strings.TrimSpace(*in.Name)
		}
		if in.Price != nil {
			svc.Price = *in.Price
		}
		if in.Active != nil {
			svc.Active = *in.Active
		}
		if err := s.serviceRepo.Save(ctx, tx, svc); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrServiceNameTaken
			}
			return fmt.Errorf("save service: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// Seed makes the catalog contain DefaultServices, active and at their
// default price. Running it twice changes nothing the second time.
func (s *catalogService) Seed(ctx context.Context) (*SeedResult, error) {
	res := &SeedResult{}
	err := s.uow.Do(ctx, func(tx *gorm.DB) error {
		for _, def := range DefaultServices {
			svc, err := s.serviceRepo.FindByName(ctx, tx, def.Name)
			if repository.IsNotFound(err) {
				if err := s.serviceRepo.Create(ctx, tx, &models.Service{Name: def.Name, Price: def.Price, Active: true}); err != nil {
					return fmt.Errorf("create %s: %w", def.Name, err)
				}
				res.Created++
				continue
			}
			if err != nil {
				return fmt.Errorf("find %s: %w", def.Name, err)
			}

			changed := false
			if !svc.Active {
				svc.Active = true
				res.Reactivated++
				changed = true
			}
			if svc.Price != def.Price {
				svc.Price = def.Price
				res.Updated++
				changed = true
			}
			if changed {
				if err := s.serviceRepo.Save(ctx, tx, svc); err != nil {
					return fmt.Errorf("save %s: %w", def.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("service catalog seeded",
		"created", res.Created, "updated", res.Updated, "reactivated", res.Reactivated)
	return res, nil
}
