package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "cohorts/internal/errors"
	"cohorts/internal/model"
	"cohorts/internal/repository"
)

func validCohort() *model.Cohort {
	return &model.Cohort{
		Slug:    "wd-101",
		Name:    "Web Dev 101",
		Program: model.ProgramWebDev,
		Format:  model.FormatFullTime,
	}
}

func TestCohortService_Create(t *testing.T) {
	tests := []struct {
		name         string
		cohort       func() *model.Cohort
		setupMock    func(*MockCohortRepository)
		wantErr      bool
		expectedKind apperrors.Kind
		expectedMsg  string
	}{
		{
			name:   "successful create",
			cohort: validCohort,
			setupMock: func(m *MockCohortRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Cohort")).Return(nil)
			},
		},
		{
			name: "missing slug",
			cohort: func() *model.Cohort {
				c := validCohort()
				c.Slug = ""
				return c
			},
			setupMock:    func(m *MockCohortRepository) {},
			wantErr:      true,
			expectedKind: apperrors.KindMalformedInput,
			expectedMsg:  "slug is required",
		},
		{
			name: "unknown program",
			cohort: func() *model.Cohort {
				c := validCohort()
				c.Program = "Cooking"
				return c
			},
			setupMock:    func(m *MockCohortRepository) {},
			wantErr:      true,
			expectedKind: apperrors.KindMalformedInput,
			expectedMsg:  `program must be one of ["Web Dev", "UX/UI", "Data Analytics", "Cybersecurity"]`,
		},
		{
			name: "unknown format",
			cohort: func() *model.Cohort {
				c := validCohort()
				c.Format = "Weekends"
				return c
			},
			setupMock:    func(m *MockCohortRepository) {},
			wantErr:      true,
			expectedKind: apperrors.KindMalformedInput,
			expectedMsg:  `format must be one of ["Full Time", "Part Time"]`,
		},
		{
			name:   "duplicate slug",
			cohort: validCohort,
			setupMock: func(m *MockCohortRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateKey)
			},
			wantErr:      true,
			expectedKind: apperrors.KindConflict,
			expectedMsg:  MsgCohortExists,
		},
		{
			name:   "store failure",
			cohort: validCohort,
			setupMock: func(m *MockCohortRepository) {
				m.On("Create", mock.Anything, mock.Anything).Return(errors.New("boom"))
			},
			wantErr:      true,
			expectedKind: apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCohortRepository)
			tt.setupMock(mockRepo)

			service := NewCohortService(mockRepo)
			cohort, err := service.Create(context.Background(), tt.cohort())

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				if tt.expectedMsg != "" {
					assert.EqualError(t, err, tt.expectedMsg)
				}
				assert.Nil(t, cohort)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "wd-101", cohort.Slug)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCohortService_CreateIgnoresClientID(t *testing.T) {
	mockRepo := new(MockCohortRepository)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Cohort) bool {
		return c.ID == ""
	})).Return(nil)

	c := validCohort()
	c.ID = model.NewID()
	_, err := NewCohortService(mockRepo).Create(context.Background(), c)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCohortService_Get(t *testing.T) {
	id := model.NewID()

	t.Run("malformed id", func(t *testing.T) {
		mockRepo := new(MockCohortRepository)
		_, err := NewCohortService(mockRepo).Get(context.Background(), "abc")
		assert.Equal(t, apperrors.KindMalformedInput, apperrors.KindOf(err))
		assert.EqualError(t, err, apperrors.MsgInvalidID)
		mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockCohortRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
		_, err := NewCohortService(mockRepo).Get(context.Background(), id)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
		assert.EqualError(t, err, apperrors.MsgNotFound)
	})

	t.Run("uppercase id is canonicalized", func(t *testing.T) {
		existing := validCohort()
		existing.ID = id
		mockRepo := new(MockCohortRepository)
		mockRepo.On("FindByID", mock.Anything, id).Return(existing, nil)

		cohort, err := NewCohortService(mockRepo).Get(context.Background(), strings.ToUpper(id))
		require.NoError(t, err)
		assert.Equal(t, id, cohort.ID)
	})
}

func TestCohortService_Update(t *testing.T) {
	id := model.NewID()
	stored := func() *model.Cohort {
		c := validCohort()
		c.ID = id
		return c
	}
	name := "Renamed"
	slug := "taken"
	badProgram := model.Program("Cooking")
	empty := ""
	inProgress := true

	tests := []struct {
		name         string
		patch        CohortPatch
		setupMock    func(*MockCohortRepository)
		wantErr      bool
		expectedKind apperrors.Kind
		expectedMsg  string
		check        func(*testing.T, *model.Cohort)
	}{
		{
			name:  "only supplied fields change",
			patch: CohortPatch{Name: &name, InProgress: &inProgress},
			setupMock: func(m *MockCohortRepository) {
				m.On("FindByID", mock.Anything, id).Return(stored(), nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Cohort")).Return(nil)
			},
			check: func(t *testing.T, c *model.Cohort) {
				assert.Equal(t, "Renamed", c.Name)
				assert.Equal(t, "wd-101", c.Slug)
				assert.Equal(t, model.ProgramWebDev, c.Program)
				assert.True(t, c.InProgress)
			},
		},
		{
			name:  "result is re-validated",
			patch: CohortPatch{Program: &badProgram},
			setupMock: func(m *MockCohortRepository) {
				m.On("FindByID", mock.Anything, id).Return(stored(), nil)
			},
			wantErr:      true,
			expectedKind: apperrors.KindMalformedInput,
		},
		{
			name:  "required field blanked",
			patch: CohortPatch{Name: &empty},
			setupMock: func(m *MockCohortRepository) {
				m.On("FindByID", mock.Anything, id).Return(stored(), nil)
			},
			wantErr:      true,
			expectedKind: apperrors.KindMalformedInput,
			expectedMsg:  "name is required",
		},
		{
			name:  "slug collision",
			patch: CohortPatch{Slug: &slug},
			setupMock: func(m *MockCohortRepository) {
				m.On("FindByID", mock.Anything, id).Return(stored(), nil)
				m.On("Update", mock.Anything, mock.Anything).Return(repository.ErrDuplicateKey)
			},
			wantErr:      true,
			expectedKind: apperrors.KindConflict,
			expectedMsg:  MsgCohortSlugExists,
		},
		{
			name:  "missing cohort",
			patch: CohortPatch{Name: &name},
			setupMock: func(m *MockCohortRepository) {
				m.On("FindByID", mock.Anything, id).Return(nil, repository.ErrNotFound)
			},
			wantErr:      true,
			expectedKind: apperrors.KindNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCohortRepository)
			tt.setupMock(mockRepo)

			cohort, err := NewCohortService(mockRepo).Update(context.Background(), id, tt.patch)

			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.expectedKind, apperrors.KindOf(err))
				if tt.expectedMsg != "" {
					assert.EqualError(t, err, tt.expectedMsg)
				}
				assert.Nil(t, cohort)
			} else {
				require.NoError(t, err)
				tt.check(t, cohort)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCohortService_Delete(t *testing.T) {
	id := model.NewID()

	mockRepo := new(MockCohortRepository)
	mockRepo.On("Delete", mock.Anything, id).Return(nil).Once()
	mockRepo.On("Delete", mock.Anything, id).Return(repository.ErrNotFound).Once()
	service := NewCohortService(mockRepo)

	require.NoError(t, service.Delete(context.Background(), id))

	err := service.Delete(context.Background(), id)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	err = service.Delete(context.Background(), "abc")
	assert.Equal(t, apperrors.KindMalformedInput, apperrors.KindOf(err))

	mockRepo.AssertExpectations(t)
}

func TestCohortService_List(t *testing.T) {
	mockRepo := new(MockCohortRepository)
	mockRepo.On("List", mock.Anything).Return([]model.Cohort{*validCohort()}, nil)

	cohorts, err := NewCohortService(mockRepo).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, cohorts, 1)
}
