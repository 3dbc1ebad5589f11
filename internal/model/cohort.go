package model

import (
	"time"

	"gorm.io/gorm"
)

// Program is the course track a cohort belongs to.
type Program string

const (
	ProgramWebDev        Program = "Web Dev"
	ProgramUXUI          Program = "UX/UI"
	ProgramDataAnalytics Program = "Data Analytics"
	ProgramCybersecurity Program = "Cybersecurity"
)

// Programs lists every accepted program.
var Programs = []Program{ProgramWebDev, ProgramUXUI, ProgramDataAnalytics, ProgramCybersecurity}

// IsValid reports whether p is one of Programs.
func (p Program) IsValid() bool {
	for _, known := range Programs {
		if p == known {
			return true
		}
	}
	return false
}

// Format is the schedule a cohort runs on.
type Format string

const (
	FormatFullTime Format = "Full Time"
	FormatPartTime Format = "Part Time"
)

// Formats lists every accepted format.
var Formats = []Format{FormatFullTime, FormatPartTime}

// IsValid reports whether f is one of Formats.
func (f Format) IsValid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Cohort is a course group students can be enrolled in.
type Cohort struct {
	ID         string    `json:"_id" gorm:"type:char(24);primaryKey"`
	Slug       string    `json:"slug" gorm:"size:255;uniqueIndex;not null" validate:"required"`
	Name       string    `json:"name" gorm:"size:255;not null" validate:"required"`
	Program    Program   `json:"program" gorm:"size:64;not null" validate:"required,program"`
	Format     Format    `json:"format" gorm:"size:32;not null" validate:"required,format"`
	InProgress bool      `json:"inProgress" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an identifier before insert.
func (c *Cohort) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// Summary returns the subset of fields embedded into student reads.
func (c *Cohort) Summary() *CohortSummary {
	return &CohortSummary{
		ID:      c.ID,
		Name:    c.Name,
		Slug:    c.Slug,
		Program: c.Program,
		Format:  c.Format,
	}
}

// CohortSummary is the populated form of a student's cohort reference.
type CohortSummary struct {
	ID      string  `json:"_id"`
	Name    string  `json:"cohortName"`
	Slug    string  `json:"cohortSlug"`
	Program Program `json:"program"`
	Format  Format  `json:"format"`
}
