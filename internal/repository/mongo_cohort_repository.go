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

type mongoCohortRepository struct {
	coll *mongo.Collection
}

// NewMongoCohortRepository creates a MongoDB-backed cohort repository.
func NewMongoCohortRepository(database *mongo.Database) CohortRepository {
	return &mongoCohortRepository{coll: database.Collection(db.CohortsCollection)}
}

func (r *mongoCohortRepository) Create(ctx context.Context, cohort *model.Cohort) error {
	if cohort.ID == "" {
		cohort.ID = model.NewID()
	}
	ts := now()
	cohort.CreatedAt, cohort.UpdatedAt = ts, ts

	doc, err := newCohortDocument(cohort)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return translateMongoError(err)
}

func (r *mongoCohortRepository) Update(ctx context.Context, cohort *model.Cohort) error {
	cohort.UpdatedAt = now()
	doc, err := newCohortDocument(cohort)
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

func (r *mongoCohortRepository) Delete(ctx context.Context, id string) error {
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

func (r *mongoCohortRepository) FindByID(ctx context.Context, id string) (*model.Cohort, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var doc cohortDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	cohort := doc.toModel()
	return &cohort, nil
}

func (r *mongoCohortRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Cohort, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []model.Cohort{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (r *mongoCohortRepository) List(ctx context.Context) ([]model.Cohort, error) {
	return r.find(ctx, bson.M{})
}

func (r *mongoCohortRepository) find(ctx context.Context, filter bson.M) ([]model.Cohort, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translateMongoError(err)
	}
	var docs []cohortDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err)
	}
	cohorts := make([]model.Cohort, 0, len(docs))
	for _, doc := range docs {
		cohorts = append(cohorts, doc.toModel())
	}
	return cohorts, nil
}
