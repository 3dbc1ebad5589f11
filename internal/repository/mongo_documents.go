package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cohorts/internal/model"
)

// Documents mirror the models with native ObjectIDs so references stay
// queryable from the mongo shell.

type cohortDocument struct {
	ID         primitive.ObjectID `bson:"_id"`
	Slug       string             `bson:"slug"`
	Name       string             `bson:"name"`
	Program    string             `bson:"program"`
	Format     string             `bson:"format"`
	InProgress bool               `bson:"inProgress"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func newCohortDocument(c *model.Cohort) (cohortDocument, error) {
	id, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return cohortDocument{}, err
	}
	return cohortDocument{
		ID:         id,
		Slug:       c.Slug,
		Name:       c.Name,
		Program:    string(c.Program),
		Format:     string(c.Format),
		InProgress: c.InProgress,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}, nil
}

func (d cohortDocument) toModel() model.Cohort {
	return model.Cohort{
		ID:         d.ID.Hex(),
		Slug:       d.Slug,
		Name:       d.Name,
		Program:    model.Program(d.Program),
		Format:     model.Format(d.Format),
		InProgress: d.InProgress,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type studentDocument struct {
	ID        primitive.ObjectID  `bson:"_id"`
	FirstName string              `bson:"firstName"`
	LastName  string              `bson:"lastName"`
	Email     string              `bson:"email"`
	Phone     string              `bson:"phone,omitempty"`
	Cohort    *primitive.ObjectID `bson:"cohort,omitempty"`
	CreatedAt time.Time           `bson:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt"`
}

func newStudentDocument(s *model.Student) (studentDocument, error) {
	id, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return studentDocument{}, err
	}
	doc := studentDocument{
		ID:        id,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.CohortID != nil {
		cohortID, err := primitive.ObjectIDFromHex(*s.CohortID)
		if err != nil {
			return studentDocument{}, err
		}
		doc.Cohort = &cohortID
	}
	return doc, nil
}

func (d studentDocument) toModel() model.Student {
	s := model.Student{
		ID:        d.ID.Hex(),
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Cohort != nil {
		cohortID := d.Cohort.Hex()
		s.CohortID = &cohortID
	}
	return s
}

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func newUserDocument(u *model.User) (userDocument, error) {
	id, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return userDocument{}, err
	}
	return userDocument{
		ID:        id,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}

func (d userDocument) toModel() model.User {
	return model.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// objectIDs converts hex ids, skipping malformed ones; they cannot match a
// stored document anyway.
func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

// now returns the current time at the millisecond precision BSON stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
