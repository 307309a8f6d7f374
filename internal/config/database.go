package config

import (
	"context"
	"fmt"
	"time"

	influxdb3 "github.com/InfluxCommunity/influxdb3-go/v2/influxdb3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDatabase wraps the MongoDB client and the collections this
// subsystem touches: the append-only audit log, the user records
// (notification preferences) and the device registry.
type MongoDatabase struct {
	Client  *mongo.Client
	Audit   *mongo.Collection
	Users   *mongo.Collection
	Devices *mongo.Collection
}

// InfluxDatabase wraps InfluxDB v3 client
type InfluxDatabase struct {
	Client   *influxdb3.Client
	Database string
}

// InitMongo connects to MongoDB and prepares collection handles
func InitMongo(cfg *Config) (*MongoDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(50).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	database := client.Database(cfg.MongoDB)
	audit := database.Collection(cfg.AuditCollection)

	if err := createAuditIndexes(ctx, audit); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	fmt.Printf("✓ MongoDB connected: %s\n", cfg.MongoDB)

	return &MongoDatabase{
		Client:  client,
		Audit:   audit,
		Users:   database.Collection("users"),
		Devices: database.Collection("devices"),
	}, nil
}

func createAuditIndexes(ctx context.Context, col *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: map[string]interface{}{"timestamp": -1},
		},
		{
			Keys: map[string]interface{}{"device_id": 1},
		},
		{
			Keys: map[string]interface{}{"has_issues": 1},
		},
	}

	_, err := col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Close disconnects the MongoDB client
func (m *MongoDatabase) Close() error {
	if m.Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return m.Client.Disconnect(ctx)
	}
	return nil
}

// InitInflux creates the InfluxDB v3 client for the telemetry store
func InitInflux(cfg *Config) (*InfluxDatabase, error) {
	if cfg.InfluxURL == "" {
		return nil, fmt.Errorf("INFLUXDB_URL is required")
	}
	if cfg.InfluxDatabase == "" {
		return nil, fmt.Errorf("INFLUXDB_DATABASE is required")
	}

	clientConfig := influxdb3.ClientConfig{
		Host:     cfg.InfluxURL,
		Database: cfg.InfluxDatabase,
	}

	// Token can stay empty for a local InfluxDB 3 Core with auth disabled
	if cfg.InfluxToken != "" {
		clientConfig.Token = cfg.InfluxToken
	}

	client, err := influxdb3.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("influx client creation failed: %w", err)
	}

	fmt.Printf("✓ InfluxDB connected: %s\n", cfg.InfluxDatabase)

	return &InfluxDatabase{
		Client:   client,
		Database: cfg.InfluxDatabase,
	}, nil
}

// Close closes the InfluxDB connection
func (i *InfluxDatabase) Close() error {
	if i.Client != nil {
		i.Client.Close()
	}
	return nil
}
