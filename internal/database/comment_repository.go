package database

import (
	"context"
	"fmt"
	"time"

	"memehub/internal/models"
	"memehub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentDocument represents comment data in MongoDB
type CommentDocument struct {
	ID             string    `bson:"_id"`
	MemeID         string    `bson:"memeid"`
	AuthorID       string    `bson:"authorid"`
	AuthorUsername string    `bson:"authorusername"`
	Text           string    `bson:"text"`
	CreatedAt      time.Time `bson:"createdat"`
}

func CommentToDocument(c *models.Comment) *CommentDocument {
	return &CommentDocument{
		ID:             c.ID,
		MemeID:         c.MemeID,
		AuthorID:       c.AuthorID,
		AuthorUsername: c.AuthorUsername,
		Text:           c.Text,
		CreatedAt:      c.CreatedAt,
	}
}

func DocumentToComment(doc *CommentDocument) *models.Comment {
	return &models.Comment{
		ID:             doc.ID,
		MemeID:         doc.MemeID,
		AuthorID:       doc.AuthorID,
		AuthorUsername: doc.AuthorUsername,
		Text:           doc.Text,
		CreatedAt:      doc.CreatedAt.UTC(),
	}
}

// SaveComment inserts a comment. Comments are immutable, so an existing id is
// left untouched.
func (m *MongoDB) SaveComment(ctx context.Context, comment *models.Comment) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": comment.ID}
	update := bson.M{"$setOnInsert": CommentToDocument(comment)}

	if _, err := m.Comments.UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment "+comment.ID, err)
	}
	return nil
}

// GetMemeComments retrieves a meme's comments newest first.
func (m *MongoDB) GetMemeComments(ctx context.Context, memeID string) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdat", Value: -1}})
	return m.findComments(ctx, bson.M{"memeid": memeID}, opts)
}

// GetAllComments retrieves every comment in write order.
func (m *MongoDB) GetAllComments(ctx context.Context) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	return m.findComments(ctx, bson.M{}, opts)
}

func (m *MongoDB) findComments(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Comment, error) {
	cursor, err := m.Comments.Find(ctx, filter, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query comments", err)
	}
	defer cursor.Close(ctx)

	var docs []CommentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}

	comments := make([]*models.Comment, 0, len(docs))
	for i := range docs {
		comments = append(comments, DocumentToComment(&docs[i]))
	}
	return comments, nil
}
