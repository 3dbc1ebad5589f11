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

// Student error messages.
const (
	MsgInvalidCohortID = "Invalid cohort id"
	MsgEmailExists     = "Email already exists"
)

// StudentInput is the field set accepted on create. An empty Cohort means
// no affiliation.
type StudentInput struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Cohort    *string `json:"cohort"`
}

// StudentPatch carries the fields supplied to a partial update. Cohort set to
// null or "" clears the affiliation.
type StudentPatch struct {
	FirstName *string        `json:"firstName"`
	LastName  *string        `json:"lastName"`
	Email     *string        `json:"email"`
	Phone     *string        `json:"phone"`
	Cohort    OptionalString `json:"cohort" swaggertype:"string"`
}

// StudentService exposes student CRUD with cohort population on reads.
type StudentService interface {
	List(ctx context.Context) ([]model.StudentView, error)
	ListByCohort(ctx context.Context, cohortID string) ([]model.StudentView, error)
	Get(ctx context.Context, id string) (*model.StudentView, error)
	Create(ctx context.Context, input StudentInput) (*model.StudentView, error)
	Update(ctx context.Context, id string, patch StudentPatch) (*model.StudentView, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	students repository.StudentRepository
	cohorts  repository.CohortRepository
}

// NewStudentService creates a new student service.
func NewStudentService(students repository.StudentRepository, cohorts repository.CohortRepository) StudentService {
	return &studentService{students: students, cohorts: cohorts}
}

func (s *studentService) List(ctx context.Context) ([]model.StudentView, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list students: %w", err))
	}
	return s.populate(ctx, students)
}

func (s *studentService) ListByCohort(ctx context.Context, cohortID string) ([]model.StudentView, error) {
	cohortID, ok := model.ParseID(cohortID)
	if !ok {
		return nil, apperrors.InvalidID()
	}
	students, err := s.students.ListByCohort(ctx, cohortID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("list students of cohort %s: %w", cohortID, err))
	}
	return s.populate(ctx, students)
}

func (s *studentService) Get(ctx context.Context, id string) (*model.StudentView, error) {
	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.populate(ctx, []model.Student{*student})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create inserts the student, then reads it back with the cohort populated.
// The referenced cohort is not required to exist.
func (s *studentService) Create(ctx context.Context, input StudentInput) (*model.StudentView, error) {
	student := &model.Student{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
	}
	if input.Cohort != nil {
		if err := setCohort(student, *input.Cohort); err != nil {
			return nil, err
		}
	}

	student.Normalize()
	if err := validation.Struct(student); err != nil {
		return nil, apperrors.MalformedInput(err.Error())
	}

	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, apperrors.Conflict(MsgEmailExists)
		}
		return nil, apperrors.Internal(fmt.Errorf("create student: %w", err))
	}
	return s.Get(ctx, student.ID)
}

func (s *studentService) Update(ctx context.Context, id string, patch StudentPatch) (*model.StudentView, error) {
	if _, ok := model.ParseID(id); !ok {
		return nil, apperrors.InvalidID()
	}
	if patch.Cohort.Set && patch.Cohort.Value != nil && *patch.Cohort.Value != "" && !model.IsValidID(*patch.Cohort.Value) {
		return nil, apperrors.MalformedInput(MsgInvalidCohortID)
	}

	student, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		student.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		student.LastName = *patch.LastName
	}
	if patch.Email != nil {
		student.Email = *patch.Email
	}
	if patch.Phone != nil {
		student.Phone = *patch.Phone
	}
	if patch.Cohort.Set {
		student.CohortID = nil
		if patch.Cohort.Value != nil {
			if err := setCohort(student, *patch.Cohort.Value); err != nil {
				return nil, err
			}
		}
	}

	student.Normalize()
	if err := validation.Struct(student); err != nil {
		return nil, apperrors.MalformedInput(err.Error())
	}

	if err := s.students.Update(ctx, student); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound()
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, apperrors.Conflict(MsgEmailExists)
		}
		return nil, apperrors.Internal(fmt.Errorf("update student %s: %w", student.ID, err))
	}
	return s.Get(ctx, student.ID)
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	id, ok := model.ParseID(id)
	if !ok {
		return apperrors.InvalidID()
	}
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound()
		}
		return apperrors.Internal(fmt.Errorf("delete student %s: %w", id, err))
	}
	return nil
}

func (s *studentService) find(ctx context.Context, id string) (*model.Student, error) {
	id, ok := model.ParseID(id)
	if !ok {
		return nil, apperrors.InvalidID()
	}
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound()
		}
		return nil, apperrors.Internal(fmt.Errorf("get student %s: %w", id, err))
	}
	return student, nil
}

// populate resolves every cohort reference with one batch lookup. Dangling
// references resolve to no cohort.
func (s *studentService) populate(ctx context.Context, students []model.Student) ([]model.StudentView, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, st := range students {
		if st.CohortID == nil {
			continue
		}
		if _, ok := seen[*st.CohortID]; !ok {
			seen[*st.CohortID] = struct{}{}
			ids = append(ids, *st.CohortID)
		}
	}

	summaries := make(map[string]*model.CohortSummary, len(ids))
	if len(ids) > 0 {
		cohorts, err := s.cohorts.FindByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("resolve cohorts: %w", err))
		}
		for i := range cohorts {
			summaries[cohorts[i].ID] = cohorts[i].Summary()
		}
	}

	views := make([]model.StudentView, 0, len(students))
	for _, st := range students {
		var summary *model.CohortSummary
		if st.CohortID != nil {
			summary = summaries[*st.CohortID]
		}
		views = append(views, model.NewStudentView(st, summary))
	}
	return views, nil
}

// setCohort stores a cohort reference after checking its shape only.
func setCohort(student *model.Student, cohortID string) error {
	if cohortID == "" {
		student.CohortID = nil
		return nil
	}
	id, ok := model.ParseID(cohortID)
	if !ok {
		return apperrors.MalformedInput(MsgInvalidCohortID)
	}
	student.CohortID = &id
	return nil
}
