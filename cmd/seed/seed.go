package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	apperrors "cohorts/internal/errors"
	"cohorts/internal/model"
	"cohorts/internal/service"
)

// Fixtures is the document read by the seed command.
type Fixtures struct {
	Cohorts  []CohortFixture  `yaml:"cohorts"`
	Students []StudentFixture `yaml:"students"`
}

// CohortFixture describes one cohort to create.
type CohortFixture struct {
	Slug       string `yaml:"slug"`
	Name       string `yaml:"name"`
	Program    string `yaml:"program"`
	Format     string `yaml:"format"`
	InProgress bool   `yaml:"inProgress"`
}

// StudentFixture describes one student. CohortSlug may be empty.
type StudentFixture struct {
	FirstName  string `yaml:"firstName"`
	LastName   string `yaml:"lastName"`
	Email      string `yaml:"email"`
	Phone      string `yaml:"phone"`
	CohortSlug string `yaml:"cohortSlug"`
}

// Result counts what a seed run did.
type Result struct {
	CohortsCreated  int
	CohortsSkipped  int
	StudentsCreated int
	StudentsSkipped int
}

// LoadFixtures reads and decodes a fixture file.
func LoadFixtures(path string) (*Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes a YAML fixture document. Unknown keys are rejected.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var fixtures Fixtures
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fixtures); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fixtures, nil
}

// Seeder creates fixture records through the resource services.
type Seeder struct {
	cohorts  service.CohortService
	students service.StudentService
}

// NewSeeder creates a new seeder.
func NewSeeder(cohorts service.CohortService, students service.StudentService) *Seeder {
	return &Seeder{cohorts: cohorts, students: students}
}

// Seed creates the cohorts first, then the students, resolving each
// student's cohortSlug to the identifier of the stored cohort.
func (s *Seeder) Seed(ctx context.Context, fixtures *Fixtures) (Result, error) {
	var result Result

	existing, err := s.cohorts.List(ctx)
	if err != nil {
		return result, fmt.Errorf("list cohorts: %w", err)
	}
	slugs := make(map[string]string, len(existing)+len(fixtures.Cohorts))
	for _, c := range existing {
		slugs[c.Slug] = c.ID
	}

	for i, f := range fixtures.Cohorts {
		if _, ok := slugs[f.Slug]; ok {
			result.CohortsSkipped++
			continue
		}
		created, err := s.cohorts.Create(ctx, &model.Cohort{
			Slug:       f.Slug,
			Name:       f.Name,
			Program:    model.Program(f.Program),
			Format:     model.Format(f.Format),
			InProgress: f.InProgress,
		})
		if err != nil {
			return result, fmt.Errorf("cohort #%d (%s): %w", i, f.Slug, err)
		}
		slugs[created.Slug] = created.ID
		result.CohortsCreated++
		log.Debug().Str("slug", created.Slug).Str("id", created.ID).Msg("cohort created")
	}

	for i, f := range fixtures.Students {
		input := service.StudentInput{
			FirstName: f.FirstName,
			LastName:  f.LastName,
			Email:     f.Email,
			Phone:     f.Phone,
		}
		if f.CohortSlug != "" {
			id, ok := slugs[f.CohortSlug]
			if !ok {
				return result, fmt.Errorf("student #%d (%s): unknown cohort slug %q", i, f.Email, f.CohortSlug)
			}
			input.Cohort = &id
		}

		created, err := s.students.Create(ctx, input)
		if err != nil {
			if apperrors.KindOf(err) == apperrors.KindConflict {
				result.StudentsSkipped++
				continue
			}
			return result, fmt.Errorf("student #%d (%s): %w", i, f.Email, err)
		}
		result.StudentsCreated++
		log.Debug().Str("email", created.Email).Str("id", created.ID).Msg("student created")
	}

	return result, nil
}
