package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersCollection := db.Collection("users")
	notesCollection := db.Collection("notes")
	remindersCollection := db.Collection("reminders")

	userIndexes := []mongo.IndexModel{
		// Identity provider subject id; uniqueness makes lazy provisioning
		// idempotent under concurrent first requests.
		{
			Keys: bson.D{{Key: "firebase_uid", Value: 1}},
			Options: options.Index().
				SetName("firebase_uid_unique").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName("email_unique").
				SetUnique(true),
		},
	}

	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().SetName("user_notes_date"),
		},
		{
			Keys:    bson.D{{Key: "firebase_uid", Value: 1}},
			Options: options.Index().SetName("note_owner_uid"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "is_archived", Value: 1},
			},
			Options: options.Index().SetName("user_note_visibility"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_pinned", Value: 1},
				{Key: "pinned_position", Value: 1},
			},
			Options: options.Index().SetName("user_pinned_notes_order"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "labels", Value: 1},
			},
			Options: options.Index().SetName("user_labels"),
		},
	}

	reminderIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "next_trigger", Value: 1},
			},
			Options: options.Index().SetName("user_reminder_schedule"),
		},
		{
			Keys:    bson.D{{Key: "firebase_uid", Value: 1}},
			Options: options.Index().SetName("reminder_owner_uid"),
		},
		// Scheduling scans: due reminders are selected by trigger time over
		// the active, incomplete subset.
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "is_completed", Value: 1},
				{Key: "remind_at", Value: 1},
			},
			Options: options.Index().SetName("due_reminders"),
		},
	}

	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}
	if _, err := notesCollection.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}
	if _, err := remindersCollection.Indexes().CreateMany(ctx, reminderIndexes); err != nil {
		return fmt.Errorf("failed to create reminders indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
