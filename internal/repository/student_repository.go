package repository

import (
	"context"

	"gorm.io/gorm"

	"cohorts/internal/model"
)

// StudentRepository defines student persistence operations.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Student, error)
	List(ctx context.Context) ([]model.Student, error)
	ListByCohort(ctx context.Context, cohortID string) ([]model.Student, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a GORM-backed student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return translateGormError(r.db.WithContext(ctx).Create(student).Error)
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	return translateGormError(r.db.WithContext(ctx).Model(student).Select("*").Updates(student).Error)
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Student{}, "id = ?", id)
	if res.Error != nil {
		return translateGormError(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *studentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &student, nil
}

func (r *studentRepository) List(ctx context.Context) ([]model.Student, error) {
	students := []model.Student{}
	if err := r.db.WithContext(ctx).Order("id").Find(&students).Error; err != nil {
		return nil, translateGormError(err)
	}
	return students, nil
}

func (r *studentRepository) ListByCohort(ctx context.Context, cohortID string) ([]model.Student, error) {
	students := []model.Student{}
	if err := r.db.WithContext(ctx).Where("cohort_id = ?", cohortID).Order("id").Find(&students).Error; err != nil {
		return nil, translateGormError(err)
	}
	return students, nil
}
