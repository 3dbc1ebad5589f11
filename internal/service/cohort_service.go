package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "cohorts/internal/errors"
	"cohorts/internal/model"
	"cohorts/internal/repository"
	"cohorts/internal/validation"
)

// Conflict messages for cohort writes.
const (
	MsgCohortExists     = "Cohort already exists"
	MsgCohortSlugExists = "Cohort slug already exists"
)

// CohortPatch carries the fields supplied to a partial update; nil fields
// are left untouched.
type CohortPatch struct {
	Slug       *string        `json:"slug"`
	Name       *string        `json:"name"`
	Program    *model.Program `json:"program"`
	Format     *model.Format  `json:"format"`
	InProgress *bool          `json:"inProgress"`
}

// Apply copies the supplied fields onto cohort.
func (p CohortPatch) Apply(cohort *model.Cohort) {
	if p.Slug != nil {
		cohort.Slug = *p.Slug
	}
	if p.Name != nil {
		cohort.Name = *p.Name
	}
	if p.Program != nil {
		cohort.Program = *p.Program
	}
	if p.Format != nil {
		cohort.Format = *p.Format
	}
	if p.InProgress != nil {
		cohort.InProgress = *p.InProgress
	}
}

// CohortService exposes cohort CRUD.
type CohortService interface {
	List(ctx context.Context) ([]model.Cohort, error)
	Get(ctx context.Context, id string) (*model.Cohort, error)
	Create(ctx context.Context, cohort *model.Cohort) (*model.Cohort, error)
	Update(ctx context.Context, id string, patch CohortPatch) (*model.Cohort, error)
	Delete(ctx context.Context, id string) error
}

type cohortService struct {
	repo repository.CohortRepository
}

// NewCohortService creates a new cohort service.
func NewCohortService(repo repository.CohortRepository) CohortService {
	return &cohortService{repo: repo}
}

func (s *cohortService) List(ctx context.Context) ([]model.Cohort, error) {
	cohorts, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list cohorts: %w", err))
	}
	return cohorts, nil
}

func (s *cohortService) Get(ctx context.Context, id string) (*model.Cohort, error) {
	id, ok := model.ParseID(id)
	if !ok {
		return nil, apperrors.InvalidID()
	}
	cohort, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound()
		}
		return nil, apperrors.Internal(fmt.Errorf("get cohort %s: %w", id, err))
	}
	return cohort, nil
}

// Create validates and inserts cohort. The identifier and timestamps are
// always assigned by the store.
func (s *cohortService) Create(ctx context.Context, cohort *model.Cohort) (*model.Cohort, error) {
	cohort.ID = ""
	if err := validation.Struct(cohort); err != nil {
		return nil, apperrors.MalformedInput(err.Error())
	}
	if err := s.repo.Create(ctx, cohort); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(MsgCohortExists)
		}
		return nil, apperrors.Internal(fmt.Errorf("create cohort: %w", err))
	}
	return cohort, nil
}

func (s *cohortService) Update(ctx context.Context, id string, patch CohortPatch) (*model.Cohort, error) {
	cohort, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(cohort)
	if err := validation.Struct(cohort); err != nil {
		return nil, apperrors.MalformedInput(err.Error())
	}

	if err := s.repo.Update(ctx, cohort); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound()
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, apperrors.Conflict(MsgCohortSlugExists)
		}
		return nil, apperrors.Internal(fmt.Errorf("update cohort %s: %w", cohort.ID, err))
	}
	return cohort, nil
}

// Delete removes the cohort only; students referencing it keep the
// dangling identifier.
func (s *cohortService) Delete(ctx context.Context, id string) error {
	id, ok := model.ParseID(id)
	if !ok {
		return apperrors.InvalidID()
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound()
		}
		return apperrors.Internal(fmt.Errorf("delete cohort %s: %w", id, err))
	}
	return nil
}
