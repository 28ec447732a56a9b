// internal/database/meme_repository.go
package database

import (
	"context"
	"fmt"
	"time"

	"memehub/internal/models"
	"memehub/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MemeDocument represents the MongoDB schema for a meme.
type MemeDocument struct {
	ID              string       `bson:"_id"`
	TemplateID      string       `bson:"templateid,omitempty"`
	ImageURL        string       `bson:"imageurl"`
	TopText         string       `bson:"toptext"`
	BottomText      string       `bson:"bottomtext"`
	CreatorID       string       `bson:"creatorid"`
	CreatorUsername string       `bson:"creatorusername"`
	CreatedAt       time.Time    `bson:"createdat"`
	Stats           models.Stats `bson:"stats"`
	Tags            []string     `bson:"tags"`
}

// MemeToDocument converts a Meme model to a MongoDB document.
func MemeToDocument(meme *models.Meme) *MemeDocument {
	doc := &MemeDocument{
		ID:              meme.ID,
		ImageURL:        meme.ImageURL,
		TopText:         meme.TopText,
		BottomText:      meme.BottomText,
		CreatorID:       meme.CreatorID,
		CreatorUsername: meme.CreatorUsername,
		CreatedAt:       meme.CreatedAt,
		Stats:           meme.Stats,
		Tags:            meme.Tags,
	}
	if meme.TemplateID != nil {
		doc.TemplateID = *meme.TemplateID
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	return doc
}

// DocumentToMeme converts a MongoDB document to a Meme model.
func DocumentToMeme(doc *MemeDocument) *models.Meme {
	meme := &models.Meme{
		ID:              doc.ID,
		ImageURL:        doc.ImageURL,
		TopText:         doc.TopText,
		BottomText:      doc.BottomText,
		CreatorID:       doc.CreatorID,
		CreatorUsername: doc.CreatorUsername,
		CreatedAt:       doc.CreatedAt.UTC(),
		Stats:           doc.Stats,
		Tags:            doc.Tags,
	}
	if doc.TemplateID != "" {
		templateID := doc.TemplateID
		meme.TemplateID = &templateID
	}
	if meme.Tags == nil {
		meme.Tags = []string{}
	}
	return meme
}

// SaveMeme creates or replaces a meme.
func (m *MongoDB) SaveMeme(ctx context.Context, meme *models.Meme) error {
	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": meme.ID}
	update := bson.M{"$set": MemeToDocument(meme)}

	if _, err := m.Memes.UpdateOne(ctx, filter, update, opts); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save meme "+meme.ID, err)
	}
	return nil
}

// GetMeme retrieves a meme by its ID.
func (m *MongoDB) GetMeme(ctx context.Context, id string) (*models.Meme, error) {
	var doc MemeDocument
	err := m.Memes.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, utils.NewAppError(utils.ErrNotFound, "Meme not found", err)
	}
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to load meme", err)
	}
	return DocumentToMeme(&doc), nil
}

// GetAllMemes retrieves every meme in write order. Callers sort by creation
// time with a stable sort.
func (m *MongoDB) GetAllMemes(ctx context.Context) ([]*models.Meme, error) {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	cursor, err := m.Memes.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query memes", err)
	}
	defer cursor.Close(ctx)

	var docs []MemeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode memes: %w", err)
	}

	memes := make([]*models.Meme, 0, len(docs))
	for i := range docs {
		memes = append(memes, DocumentToMeme(&docs[i]))
	}
	return memes, nil
}
