package database

import (
	"context"
	"fmt"
	"time"

	"movie-catalog/internal/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type MongoDatabase struct {
	Client *mongo.Client
	DB     *mongo.Database
	config config.DatabaseConfig
}

func ConnectMongo(cfg config.DatabaseConfig) (*MongoDatabase, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetMaxPoolSize(cfg.Mongo.MaxPoolSize).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to create MongoDB client")
		return nil, fmt.Errorf("failed to create mongodb client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logrus.WithError(err).Error("Failed to ping MongoDB")
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logrus.WithField("database", cfg.Mongo.DatabaseName).Info("MongoDB connection established successfully")

	database := &MongoDatabase{
		Client: client,
		DB:     client.Database(cfg.Mongo.DatabaseName),
		config: cfg,
	}

	if err := database.ensureIndexes(ctx); err != nil {
		logrus.WithError(err).Warn("Failed to create MongoDB indexes, but continuing...")
	}

	return database, nil
}

// Movies returns the collection holding movie documents.
func (d *MongoDatabase) Movies() *mongo.Collection {
	return d.DB.Collection(d.config.Mongo.CollectionName)
}

func (d *MongoDatabase) GetQueryTimeout() time.Duration {
	return d.config.QueryTimeout
}

func (d *MongoDatabase) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	return d.Client.Ping(ctx, readpref.Primary())
}

func (d *MongoDatabase) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return d.Client.Disconnect(ctx)
}

func (d *MongoDatabase) ensureIndexes(ctx context.Context) error {
	_, err := d.Movies().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "Title", Value: 1}}},
		{Keys: bson.D{{Key: "Rating", Value: 1}}},
		{Keys: bson.D{{Key: "Genre", Value: 1}}},
	})
	return err
}
