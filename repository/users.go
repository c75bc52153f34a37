package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"notekeeper/model"
	"notekeeper/services"
	"notekeeper/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client) *UserRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("USERS_COLLECTION", "users")
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// FindByFirebaseUID resolves a user by the identity provider's subject id.
// Returns (nil, nil) when the user has never been seen.
func (r *UserRepo) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"firebase_uid": firebaseUID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

func (r *UserRepo) FindByUserID(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	err := r.MongoCollection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}
	return &user, nil
}

// CreateFromClaims provisions a local user record for a verified identity.
// The unique index on firebase_uid makes provisioning idempotent: a racing
// insert loses with a duplicate-key error and the winner's record is reused.
func (r *UserRepo) CreateFromClaims(ctx context.Context, claims *services.Claims) (*model.User, error) {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	now := time.Now()
	user := &model.User{
		UserID:          utils.GenerateID(),
		FirebaseUID:     claims.SubjectID,
		Email:           claims.Email,
		DisplayName:     claims.DisplayName,
		PhotoURL:        claims.PhotoURL,
		IsEmailVerified: claims.EmailVerified,
		IsActive:        true,
		Role:            model.RoleUser,
		LastLogin:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := r.MongoCollection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByFirebaseUID(ctx, claims.SubjectID)
		}
		utils.TrackError("database", "user_creation_failed")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateLastLogin stamps the login time and the device the user came from.
func (r *UserRepo) UpdateLastLogin(ctx context.Context, firebaseUID, device string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"last_login": time.Now(),
			"updated_at": time.Now(),
		},
	}
	if device != "" {
		update["$set"].(bson.M)["last_login_device"] = device
	}

	_, err := r.MongoCollection.UpdateOne(ctx, bson.M{"firebase_uid": firebaseUID}, update)
	if err != nil {
		utils.TrackError("database", "last_login_update_failed")
	}
	return err
}

// UpdatePreferences replaces the user's preference bag.
func (r *UserRepo) UpdatePreferences(ctx context.Context, userID string, prefs model.UserPreferences) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"preferences": prefs, "updated_at": time.Now()}})
	if err != nil {
		utils.TrackError("database", "preferences_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-disables the account; there is no hard delete.
func (r *UserRepo) Deactivate(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}})
	if err != nil {
		utils.TrackError("database", "user_deactivation_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
