package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"adgallery/internal/repository"
)

// base provides generic single-collection operations shared by the
// concrete repositories. Every operation is a straight pass-through:
// no retries, no caching, no optimistic concurrency. Driver errors are
// wrapped and propagated; absence and malformed identifiers map to the
// repository sentinels.
type base struct {
	coll Collection
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, repository.ErrInvalidID
	}
	return oid, nil
}

func (b *base) findOne(ctx context.Context, filter interface{}, out interface{}) error {
	err := b.coll.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one: %w", err)
	}
	return nil
}

func (b *base) findByID(ctx context.Context, id string, out interface{}) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	return b.findOne(ctx, bson.M{"_id": oid}, out)
}

// findMany decodes the matching documents into out (a pointer to a
// slice). limit 0 means unbounded.
func (b *base) findMany(ctx context.Context, filter interface{}, skip, limit int64, sort interface{}, out interface{}) error {
	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	if sort != nil {
		opts.SetSort(sort)
	}

	cur, err := b.coll.Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("find: %w", err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode documents: %w", err)
	}
	return nil
}

func (b *base) count(ctx context.Context, filter interface{}) (int64, error) {
	n, err := b.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func (b *base) insertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := b.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert one: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid, nil
}

// updateOne reports success when at least one document matched; a
// matched but unmodified document still counts.
func (b *base) updateOne(ctx context.Context, filter, update interface{}) (bool, error) {
	res, err := b.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("update one: %w", err)
	}
	return res.MatchedCount > 0, nil
}

func (b *base) updateByID(ctx context.Context, id string, update interface{}) (bool, error) {
	oid, err := parseID(id)
	if err != nil {
		return false, err
	}
	return b.updateOne(ctx, bson.M{"_id": oid}, update)
}

func (b *base) deleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	res, err := b.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete one: %w", err)
	}
	return res.DeletedCount, nil
}

func (b *base) deleteMany(ctx context.Context, filter interface{}) (int64, error) {
	res, err := b.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete many: %w", err)
	}
	return res.DeletedCount, nil
}

// aggregate runs an opaque pipeline and decodes the result documents
// into out (a pointer to a slice). Stages are passed through to the
// storage engine untouched.
func (b *base) aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	cur, err := b.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode aggregation: %w", err)
	}
	return nil
}

func (b *base) distinct(ctx context.Context, field string, filter interface{}) ([]interface{}, error) {
	vals, err := b.coll.Distinct(ctx, field, filter)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", field, err)
	}
	return vals, nil
}
