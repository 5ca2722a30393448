package db

import (
	"context"
	"fmt"

	"github.com/chessvlm/rulebench/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RunDbClient struct {
	client           *mongo.Client
	RunCollection    *mongo.Collection
	ResultCollection *mongo.Collection
}

func (r *RunDbClient) Close() error {
	return r.client.Disconnect(context.TODO())
}

func NewDbClient(cfg *config.Configuration) (*RunDbClient, error) {
	clientOpts := options.Client().ApplyURI(cfg.Database.Address)

	dbClient := &RunDbClient{}

	client, err := mongo.Connect(context.TODO(), clientOpts)
	if err != nil {
		return nil, err
	}
	dbClient.client = client

	err = client.Ping(context.TODO(), nil)
	if err != nil {
		return nil, err
	}

	database := client.Database(cfg.Database.DatabaseName)
	dbClient.RunCollection = database.Collection(cfg.Database.RunCollection)
	if dbClient.RunCollection == nil {
		return nil, fmt.Errorf("can't resolve collection %s", cfg.Database.DatabaseName+"."+cfg.Database.RunCollection)
	}
	dbClient.ResultCollection = database.Collection(cfg.Database.ResultCollection)
	if dbClient.ResultCollection == nil {
		return nil, fmt.Errorf("can't resolve collection %s", cfg.Database.DatabaseName+"."+cfg.Database.ResultCollection)
	}
	return dbClient, nil
}
