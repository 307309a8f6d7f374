package repository

import (
	"context"
	"fmt"

	"aqua_project/internal/config"
	"aqua_project/internal/constants"
	"aqua_project/internal/domain"
	"aqua_project/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepo implements AuditSink, PreferenceStore and DeviceStore on the
// document store
type MongoRepo struct {
	db *config.MongoDatabase
}

// NewMongoRepo creates a new MongoDB repository
func NewMongoRepo(db *config.MongoDatabase) *MongoRepo {
	return &MongoRepo{db: db}
}

// Append writes one audit record. The audit log tolerates lost and
// duplicate writes, so there is no retry here.
func (r *MongoRepo) Append(ctx context.Context, record domain.AuditRecord) error {
	_, err := r.db.Audit.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("audit append failed: %w", err)
	}
	return nil
}

// GetPreferences loads a user's notification preferences. A missing user
// document or a lookup error falls back to all channels enabled.
func (r *MongoRepo) GetPreferences(ctx context.Context, userID string) (domain.NotificationPreferences, error) {
	var doc struct {
		Preferences *domain.NotificationPreferences `bson:"notification_preferences"`
	}

	err := r.db.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			logger.WriteLog(constants.LOG_LEVEL_DEBUG, userID, "PREFS",
				"No user document, using default preferences")
			return domain.DefaultPreferences(), nil
		}
		return domain.DefaultPreferences(), fmt.Errorf("preference lookup failed: %w", err)
	}

	// User exists but never saved preferences
	if doc.Preferences == nil {
		return domain.DefaultPreferences(), nil
	}

	return *doc.Preferences, nil
}

// ListDevices returns the active devices owned by ownerID. An empty
// ownerID lists every active device.
func (r *MongoRepo) ListDevices(ctx context.Context, ownerID string) ([]domain.Device, error) {
	query := bson.M{"active": true}
	if ownerID != "" {
		query["owner_id"] = ownerID
	}

	cursor, err := r.db.Devices.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("device listing failed: %w", err)
	}
	defer cursor.Close(ctx)

	var devices []domain.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, fmt.Errorf("device cursor decode failed: %w", err)
	}

	return devices, nil
}
