// Package mongodb implements repository.Store on a MongoDB collection.
//
// Each key is one document: {_id: key, value: "<json>"}. The value is kept as a
// string so the adapter stays opaque to it; decoding it into BSON would let
// Mongo reinterpret numbers and dates.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/snippet-library/internal/apperror"
	"github.com/sakif/snippet-library/internal/repository"
)

var _ repository.Store = (*Store)(nil)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type document struct {
	Key   string `bson:"_id"`
	Value string `bson:"value"`
}

// New connects to uri and pings the deployment before returning.
func New(ctx context.Context, uri, database, collection string) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc document
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, apperror.StorageUnavailable("get", err)
	}
	return []byte(doc.Value), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		document{Key: key, Value: string(value)},
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return apperror.StorageUnavailable("set", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return apperror.StorageUnavailable("delete", err)
	}
	return nil
}

// ScanPrefix matches an anchored, quoted regex on _id, which Mongo can serve
// from the _id index.
func (s *Store) ScanPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, apperror.StorageUnavailable("scan", err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperror.StorageUnavailable("scan", err)
	}

	values := make([][]byte, 0, len(docs))
	for _, d := range docs {
		values = append(values, []byte(d.Value))
	}
	return values, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
