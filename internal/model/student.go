package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Student is a learner, optionally affiliated with one cohort.
//
// CohortID is a weak reference: the cohort may be deleted while students
// still point at it.
type Student struct {
	ID        string    `json:"_id" gorm:"type:char(24);primaryKey"`
	FirstName string    `json:"firstName" gorm:"size:255;not null" validate:"required"`
	LastName  string    `json:"lastName" gorm:"size:255;not null" validate:"required"`
	Email     string    `json:"email" gorm:"size:255;uniqueIndex;not null" validate:"required"`
	Phone     string    `json:"phone,omitempty" gorm:"size:64"`
	CohortID  *string   `json:"cohort,omitempty" gorm:"type:char(24);index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an identifier before insert.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}
	return nil
}

// Normalize trims names and lowercases the email.
func (s *Student) Normalize() {
	s.FirstName = strings.TrimSpace(s.FirstName)
	s.LastName = strings.TrimSpace(s.LastName)
	s.Email = NormalizeEmail(s.Email)
}

// StudentView is the read shape of a student with its cohort resolved.
type StudentView struct {
	ID        string         `json:"_id"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	Cohort    *CohortSummary `json:"cohort,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewStudentView builds the read shape. cohort is nil when the reference is
// absent or dangling.
func NewStudentView(s Student, cohort *CohortSummary) StudentView {
	return StudentView{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
		Cohort:    cohort,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
