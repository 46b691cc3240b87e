package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"adgallery/internal/config"
)

var mongoConnect = mongo.Connect

// DB owns the Mongo client and the application database handle. It is
// constructed once at startup and shared; the driver's client is safe for
// concurrent use.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    config.MongoConfig
}

// ValidateMongoConfig rejects configs that cannot possibly connect.
func ValidateMongoConfig(c config.MongoConfig) error {
	if c.URI == "" || c.Database == "" {
		return fmt.Errorf("invalid mongo config: uri and database are required")
	}
	return nil
}

// New connects to MongoDB, verifies the connection with a ping and returns
// the shared handle. Command monitoring is wired for tracing.
func New(ctx context.Context, c config.MongoConfig) (*DB, error) {
	if err := ValidateMongoConfig(c); err != nil {
		return nil, err
	}

	opts := options.Client().
		ApplyURI(c.URI).
		SetConnectTimeout(c.ConnectTimeout()).
		SetMonitor(otelmongo.NewMonitor())

	client, err := mongoConnect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	// Verify connectivity within the configured timeout
	pingCtx, cancel := context.WithTimeout(ctx, c.ConnectTimeout())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &DB{
		client: client,
		db:     client.Database(c.Database),
		cfg:    c,
	}, nil
}

// Collection returns a handle to the named collection.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Ads returns the ads collection.
func (d *DB) Ads() *mongo.Collection {
	return d.Collection(d.cfg.AdsCollection)
}

// Users returns the users collection.
func (d *DB) Users() *mongo.Collection {
	return d.Collection(d.cfg.UsersCollection)
}

// Ping verifies the server is still reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

// Close tears down the client. Call on shutdown.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Stats describes the ads collection as a whole.
type Stats struct {
	TotalDocuments  int64    `json:"total_documents"`
	TotalWorkspaces int      `json:"total_workspaces"`
	Workspaces      []string `json:"workspaces"`
	Database        string   `json:"database"`
	Collection      string   `json:"collection"`
}

// Stats counts every document and lists the distinct workspaces. One full
// collection count plus one distinct query.
func (d *DB) Stats(ctx context.Context) (*Stats, error) {
	ads := d.Ads()

	total, err := ads.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	raw, err := ads.Distinct(ctx, "workspace_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("distinct workspaces: %w", err)
	}

	workspaces := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			workspaces = append(workspaces, s)
		}
	}

	return &Stats{
		TotalDocuments:  total,
		TotalWorkspaces: len(workspaces),
		Workspaces:      workspaces,
		Database:        d.cfg.Database,
		Collection:      d.cfg.AdsCollection,
	}, nil
}
