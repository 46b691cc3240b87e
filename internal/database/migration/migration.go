package migration

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type indexStep struct {
	Name  string
	Model mongo.IndexModel
}

var steps = []indexStep{
	{
		Name: "workspace_id_created_at",
		Model: mongo.IndexModel{
			Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	},
	{
		Name: "workspace_id_aspect_ratio",
		Model: mongo.IndexModel{
			Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "params.aspect_ratio", Value: 1}},
		},
	},
	{
		Name: "workspace_id_category",
		Model: mongo.IndexModel{
			Keys: bson.D{{Key: "workspace_id", Value: 1}, {Key: "params.category", Value: 1}},
		},
	},
	{
		Name: "created_at",
		Model: mongo.IndexModel{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	},
}

var userSteps = []indexStep{
	{
		Name: "user_id_unique",
		Model: mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	},
}

// EnsureUserIndexes creates the unique user_id index on the users
// collection.
func EnsureUserIndexes(ctx context.Context, coll *mongo.Collection, log *zap.Logger) error {
	return runSteps(ctx, coll, log, userSteps)
}

// EnsureIndexes creates the query indexes the ad repository relies on.
// CreateOne is idempotent, so running this on every startup is safe.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, log *zap.Logger) error {
	return runSteps(ctx, coll, log, steps)
}

func runSteps(ctx context.Context, coll *mongo.Collection, log *zap.Logger, steps []indexStep) error {
	start := time.Now()

	log.Info("db_index_check",
		zap.String("component", "database"),
		zap.String("collection", coll.Name()),
	)

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := coll.Indexes().CreateOne(ctx, step.Model); err != nil {
			log.Error("db_index_failed",
				zap.String("component", "database"),
				zap.String("index", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
			return fmt.Errorf("create index %s: %w", step.Name, err)
		}

		log.Info("db_index_step",
			zap.String("component", "database"),
			zap.String("index", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_index_success",
		zap.String("component", "database"),
		zap.String("collection", coll.Name()),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
