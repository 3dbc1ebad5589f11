package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"cohorts/internal/config"
	"cohorts/internal/db"
)

// Repositories bundles the repositories of one store.
type Repositories struct {
	Cohorts  CohortRepository
	Students StudentRepository
	Users    UserRepository

	close func(ctx context.Context) error
}

// NewGormRepositories builds repositories over a GORM connection.
func NewGormRepositories(gormDB *gorm.DB) *Repositories {
	return &Repositories{
		Cohorts:  NewCohortRepository(gormDB),
		Students: NewStudentRepository(gormDB),
		Users:    NewUserRepository(gormDB),
		close: func(context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

// NewMongoRepositories builds repositories over a MongoDB database.
func NewMongoRepositories(database *mongo.Database) *Repositories {
	return &Repositories{
		Cohorts:  NewMongoCohortRepository(database),
		Students: NewMongoStudentRepository(database),
		Users:    NewMongoUserRepository(database),
		close: func(ctx context.Context) error {
			return database.Client().Disconnect(ctx)
		},
	}
}

// Close releases the underlying store connection.
func (r *Repositories) Close(ctx context.Context) error {
	if r.close == nil {
		return nil
	}
	return r.close(ctx)
}

// Open connects to the store selected by driver, prepares its schema and
// returns the repositories over it.
func Open(ctx context.Context, driver, url, database string, reset bool) (*Repositories, error) {
	switch driver {
	case config.DriverMySQL, config.DriverSQLite:
		open := db.NewMySQL
		if driver == config.DriverSQLite {
			open = db.NewSQLite
		}
		gormDB, err := open(url)
		if err != nil {
			return nil, err
		}
		repos := NewGormRepositories(gormDB)
		if err := db.Migrate(gormDB, reset); err != nil {
			_ = repos.Close(ctx)
			return nil, err
		}
		return repos, nil
	case config.DriverMongo:
		mongoDB, err := db.NewMongo(ctx, url, database)
		if err != nil {
			return nil, err
		}
		if err := db.MigrateMongo(ctx, mongoDB, reset); err != nil {
			_ = mongoDB.Client().Disconnect(ctx)
			return nil, err
		}
		return NewMongoRepositories(mongoDB), nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
}
