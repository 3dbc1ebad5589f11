package repository

import (
	"context"

	"gorm.io/gorm"

	"cohorts/internal/model"
)

// CohortRepository defines cohort persistence operations.
type CohortRepository interface {
	Create(ctx context.Context, cohort *model.Cohort) error
	Update(ctx context.Context, cohort *model.Cohort) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Cohort, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Cohort, error)
	List(ctx context.Context) ([]model.Cohort, error)
}

type cohortRepository struct {
	db *gorm.DB
}

// NewCohortRepository creates a GORM-backed cohort repository.
func NewCohortRepository(db *gorm.DB) CohortRepository {
	return &cohortRepository{db: db}
}

func (r *cohortRepository) Create(ctx context.Context, cohort *model.Cohort) error {
	return translateGormError(r.db.WithContext(ctx).Create(cohort).Error)
}

// Update writes every column of cohort, zero values included.
func (r *cohortRepository) Update(ctx context.Context, cohort *model.Cohort) error {
	return translateGormError(r.db.WithContext(ctx).Model(cohort).Select("*").Updates(cohort).Error)
}

func (r *cohortRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Cohort{}, "id = ?", id)
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cohortRepository) FindByID(ctx context.Context, id string) (*model.Cohort, error) {
	var cohort model.Cohort
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cohort).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &cohort, nil
}

func (r *cohortRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Cohort, error) {
	cohorts := []model.Cohort{}
	if len(ids) == 0 {
		return cohorts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cohorts).Error; err != nil {
		return nil, translateGormError(err)
	}
	return cohorts, nil
}

func (r *cohortRepository) List(ctx context.Context) ([]model.Cohort, error) {
	cohorts := []model.Cohort{}
	if err := r.db.WithContext(ctx).Order("id").Find(&cohorts).Error; err != nil {
		return nil, translateGormError(err)
	}
	return cohorts, nil
}
