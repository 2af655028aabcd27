// Package db contains things related to the MongoDB record store
package db

import (
	"blueclova/share-api/internal/model"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PersistenceError means the record store write failed. By policy this
// never fails the overall upload: the video ID and password stay usable
// and the caller continues in degraded mode.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save video record, %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type Store struct {
	videos *mongo.Collection
}

func New() (*Store, error) {
	uri := viper.GetString("mongo.uri")
	if uri == "" {
		return nil, errors.New("mongo.uri is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB, %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB, %w", err)
	}

	return &Store{
		videos: client.Database(viper.GetString("mongo.database")).Collection("videos"),
	}, nil
}

// SaveRecord writes a new video record and returns its generated document
// ID. The creation timestamp is assigned here, on the adapter side, in UTC.
func (s *Store) SaveRecord(ctx context.Context, videoID, password string) (string, error) {
	res, err := s.videos.InsertOne(ctx, model.VideoRecord{
		VideoID:   videoID,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		Status:    model.StatusActive,
	})
	if err != nil {
		return "", &PersistenceError{Err: err}
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", &PersistenceError{Err: fmt.Errorf("unexpected inserted ID type %T", res.InsertedID)}
	}

	return oid.Hex(), nil
}
