package repository

import (
	"context"

	"github.com/faroemiliano/backBarberia1991/internal/models"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Service, error)
	FindByName(ctx context.Context, tx *gorm.DB, name string) (*models.Service, error)
	List(ctx context.Context, onlyActive bool) ([]models.Service, error)
	Create(ctx context.Context, tx *gorm.DB, svc *models.Service) error
	Save(ctx context.Context, tx *gorm.DB, svc *models.Service) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) FindByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Service, error) {
	var svc models.Service
	if err := r.conn(tx).WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *serviceRepository) FindByName(ctx context.Context, tx *gorm.DB, name string) (*models.Service, error) {
	var svc models.Service
	if err := r.conn(tx).WithContext(ctx).Where("name = ?", name).First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *serviceRepository) List(ctx context.Context, onlyActive bool) ([]models.Service, error) {
	var svcs []models.Service
	q := r.db.WithContext(ctx)
	if onlyActive {
		q = q.Where("active = ?", true)
	}
	if err := q.Order("id ASC").Find(&svcs).Error; err != nil {
		return nil, err
	}
	return svcs, nil
}

func (r *serviceRepository) Create(ctx context.Context, tx *gorm.DB, svc *models.Service) error {
	return r.conn(tx).WithContext(ctx).Create(svc).Error
}

func (r *serviceRepository) Save(ctx context.Context, tx *gorm.DB, svc *models.Service) error {
	return r.conn(tx).WithContext(ctx).Save(svc).Error
}

func (r *serviceRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}
