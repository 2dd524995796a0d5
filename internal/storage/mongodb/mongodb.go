// Package mongodb implements the credential store on a MongoDB collection
// with a unique index on email. Embedded reference ids are hex strings in
// the domain representation and ObjectIDs in the documents; this package is
// the conversion boundary.
package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Storage struct {
	client *mongo.Client
	creds  *mongo.Collection
}

// New connects to the cluster and ensures the unique email index the whole
// signup/login path relies on.
func New(ctx context.Context, uri, database, collection string) (*Storage, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	creds := client.Database(database).Collection(collection)
	_, err = creds.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &Storage{client: client, creds: creds}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Storage) Cleanup() error {
	return s.client.Disconnect(context.Background())
}
