// internal/database/mongodb.go
package database

import (
	"context"
	"fmt"
	"time"

	"memehub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Persister is the durable side of the store: it receives every acknowledged
// write and hands the whole state back at startup. The logical schema is two
// collections/tables, memes (with embedded stats and tags) and comments.
type Persister interface {
	SaveMeme(ctx context.Context, meme *models.Meme) error
	SaveComment(ctx context.Context, comment *models.Comment) error
	LoadAll(ctx context.Context) ([]*models.Meme, []*models.Comment, error)
	Close(ctx context.Context) error
}

type MongoDB struct {
	Client   *mongo.Client
	Memes    *mongo.Collection
	Comments *mongo.Collection
}

func NewMongoDB(ctx context.Context, uri, database string) (*MongoDB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	m := &MongoDB{
		Client:   client,
		Memes:    db.Collection("memes"),
		Comments: db.Collection("comments"),
	}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// EnsureIndexes creates the lookup indexes used by LoadAll and by ad-hoc queries.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	_, err := m.Memes.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "creatorid", Value: 1}}},
		{Keys: bson.D{{Key: "createdat", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create meme indexes: %w", err)
	}

	_, err = m.Comments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "memeid", Value: 1}, {Key: "createdat", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comment indexes: %w", err)
	}
	return nil
}

// LoadAll reads every meme and comment.
func (m *MongoDB) LoadAll(ctx context.Context) ([]*models.Meme, []*models.Comment, error) {
	memes, err := m.GetAllMemes(ctx)
	if err != nil {
		return nil, nil, err
	}
	comments, err := m.GetAllComments(ctx)
	if err != nil {
		return nil, nil, err
	}
	return memes, comments, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
