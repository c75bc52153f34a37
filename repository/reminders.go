package repository

import (
	"context"
	"os"
	"time"

	"notekeeper/model"
	"notekeeper/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RemindersRepo struct {
	MongoCollection *mongo.Collection
}

func GetRemindersRepo(client *mongo.Client) *RemindersRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("REMINDERS_COLLECTION", "reminders")
	return &RemindersRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *RemindersRepo) Insert(ctx context.Context, reminder *model.Reminder) error {
	timer := utils.TrackDBOperation("insert", "reminders")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, reminder)
	if err != nil {
		utils.TrackError("database", "reminder_creation_failed")
	}
	return err
}

func (r *RemindersRepo) FindByID(ctx context.Context, reminderID string) (*model.Reminder, error) {
	timer := utils.TrackDBOperation("find", "reminders")
	defer timer.ObserveDuration()

	var reminder model.Reminder
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": reminderID}).Decode(&reminder)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "reminder_lookup_error")
		return nil, err
	}
	return &reminder, nil
}

// Replace saves the full document; the caller must have run NormalizeReminder.
func (r *RemindersRepo) Replace(ctx context.Context, reminder *model.Reminder) error {
	timer := utils.TrackDBOperation("update", "reminders")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": reminder.ReminderID}, reminder)
	if err != nil {
		utils.TrackError("database", "reminder_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RemindersRepo) FindByUser(ctx context.Context, userID string) ([]*model.Reminder, error) {
	timer := utils.TrackDBOperation("find", "reminders")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "next_trigger", Value: 1}})
	return r.findMany(ctx, bson.M{"user_id": userID}, opts)
}

func (r *RemindersRepo) FindActiveByUser(ctx context.Context, userID string) ([]*model.Reminder, error) {
	timer := utils.TrackDBOperation("find", "reminders")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID, "is_active": true, "is_completed": false}
	opts := options.Find().SetSort(bson.D{{Key: "next_trigger", Value: 1}})
	return r.findMany(ctx, filter, opts)
}

// FindDueForNotification returns active, incomplete reminders whose trigger
// time has arrived and whose snooze, if any, has expired. This query drives
// the external notification collaborator.
func (r *RemindersRepo) FindDueForNotification(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	timer := utils.TrackDBOperation("find", "reminders")
	defer timer.ObserveDuration()

	filter := bson.M{
		"is_active":    true,
		"is_completed": false,
		"remind_at":    bson.M{"$lte": now},
		"$or": []bson.M{
			{"is_snoozed": false},
			{"snooze_until": bson.M{"$lte": now}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "next_trigger", Value: 1}})
	return r.findMany(ctx, filter, opts)
}

func (r *RemindersRepo) Delete(ctx context.Context, reminderID string) error {
	timer := utils.TrackDBOperation("delete", "reminders")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": reminderID})
	if err != nil {
		utils.TrackError("database", "reminder_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RemindersRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	return r.MongoCollection.CountDocuments(ctx, bson.M{"user_id": userID})
}

func (r *RemindersRepo) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Reminder, error) {
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "reminder_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var reminders []*model.Reminder
	if err = cursor.All(ctx, &reminders); err != nil {
		utils.TrackError("database", "reminder_decode_failed")
		return nil, err
	}
	return reminders, nil
}
