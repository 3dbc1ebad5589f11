package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cohorts/internal/db"
	"cohorts/internal/model"
)

type mongoStudentRepository struct {
	coll *mongo.Collection
}

// NewMongoStudentRepository creates a MongoDB-backed student repository.
func NewMongoStudentRepository(database *mongo.Database) StudentRepository {
	return &mongoStudentRepository{coll: database.Collection(db.StudentsCollection)}
}

func (r *mongoStudentRepository) Create(ctx context.Context, student *model.Student) error {
	if student.ID == "" {
		student.ID = model.NewID()
	}
	ts := now()
	student.CreatedAt, student.UpdatedAt = ts, ts

	doc, err := newStudentDocument(student)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateMongoError(err)
}

func (r *mongoStudentRepository) Update(ctx context.Context, student *model.Student) error {
	student.UpdatedAt = now()
	doc, err := newStudentDocument(student)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoStudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoStudentRepository) FindByID(ctx context.Context, id string) (*model.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc studentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	student := doc.toModel()
	return &student, nil
}

func (r *mongoStudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoStudentRepository) ListByCohort(ctx context.Context, cohortID string) ([]model.Student, error) {
	oid, err := primitive.ObjectIDFromHex(cohortID)
	if err != nil {
		return []model.Student{}, nil
	}
	return r.find(ctx, bson.M{"cohort": oid})
}

func (r *mongoStudentRepository) find(ctx context.Context, filter bson.M) ([]model.Student, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translateMongoError(err)
	}
	var docs []studentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err)
	}
	students := make([]model.Student, 0, len(docs))
	for _, doc := range docs {
		students = append(students, doc.toModel())
	}
	return students, nil
}
