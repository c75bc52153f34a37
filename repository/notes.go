package repository

import (
	"context"
	"os"

	"notekeeper/model"
	"notekeeper/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DeleteVisibility states explicitly whether a read includes soft-deleted
// documents. Every query path picks one; there is no implicit default filter.
type DeleteVisibility int

const (
	ExcludeDeleted DeleteVisibility = iota
	IncludeDeleted
	OnlyDeleted
)

func (v DeleteVisibility) apply(filter bson.M) bson.M {
	switch v {
	case ExcludeDeleted:
		filter["is_deleted"] = false
	case OnlyDeleted:
		filter["is_deleted"] = true
	}
	return filter
}

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("NOTES_COLLECTION", "notes")
	return &NotesRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *NotesRepo) Insert(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, note)
	if err != nil {
		utils.TrackError("database", "note_creation_failed")
	}
	return err
}

func (r *NotesRepo) FindByID(ctx context.Context, noteID string, visibility DeleteVisibility) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	filter := visibility.apply(bson.M{"_id": noteID})
	err := r.MongoCollection.FindOne(ctx, filter).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "note_lookup_error")
		return nil, err
	}
	return &note, nil
}

// Replace saves the full document; the caller must have run NormalizeNote.
func (r *NotesRepo) Replace(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.ReplaceOne(ctx, bson.M{"_id": note.NoteID}, note)
	if err != nil {
		utils.TrackError("database", "note_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotesRepo) FindByUser(ctx context.Context, userID string, visibility DeleteVisibility) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := visibility.apply(bson.M{"user_id": userID, "is_archived": false})
	opts := options.Find().SetSort(bson.D{
		{Key: "is_pinned", Value: -1},
		{Key: "pinned_position", Value: 1},
		{Key: "updated_at", Value: -1},
	})
	return r.findMany(ctx, filter, opts)
}

func (r *NotesRepo) FindArchived(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := ExcludeDeleted.apply(bson.M{"user_id": userID, "is_archived": true})
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	return r.findMany(ctx, filter, opts)
}

func (r *NotesRepo) FindPinned(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := ExcludeDeleted.apply(bson.M{"user_id": userID, "is_pinned": true})
	opts := options.Find().SetSort(bson.D{{Key: "pinned_position", Value: 1}})
	return r.findMany(ctx, filter, opts)
}

func (r *NotesRepo) FindFavorites(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := ExcludeDeleted.apply(bson.M{"user_id": userID, "is_favorite": true, "is_archived": false})
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	return r.findMany(ctx, filter, opts)
}

func (r *NotesRepo) FindDeleted(ctx context.Context, userID string) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := OnlyDeleted.apply(bson.M{"user_id": userID})
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}})
	return r.findMany(ctx, filter, opts)
}

// Search matches the derived search_text blob case-insensitively.
func (r *NotesRepo) Search(ctx context.Context, userID, query string, visibility DeleteVisibility) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	filter := visibility.apply(bson.M{
		"user_id":     userID,
		"search_text": bson.M{"$regex": regexEscape(query), "$options": "i"},
	})
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	return r.findMany(ctx, filter, opts)
}

func (r *NotesRepo) HardDelete(ctx context.Context, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID})
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *NotesRepo) CountByUser(ctx context.Context, userID string, visibility DeleteVisibility) (int64, error) {
	filter := visibility.apply(bson.M{"user_id": userID})
	return r.MongoCollection.CountDocuments(ctx, filter)
}

// Labels returns the distinct label set across a user's live notes.
func (r *NotesRepo) Labels(ctx context.Context, userID string) ([]string, error) {
	timer := utils.TrackDBOperation("distinct", "notes")
	defer timer.ObserveDuration()

	filter := ExcludeDeleted.apply(bson.M{"user_id": userID})
	values, err := r.MongoCollection.Distinct(ctx, "labels", filter)
	if err != nil {
		utils.TrackError("database", "label_listing_failed")
		return nil, err
	}

	labels := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			labels = append(labels, s)
		}
	}
	return labels, nil
}

func (r *NotesRepo) findMany(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Note, error) {
	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "note_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var notes []*model.Note
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_decode_failed")
		return nil, err
	}
	return notes, nil
}

// regexEscape neutralizes regex metacharacters in user queries so search is
// plain substring matching.
func regexEscape(s string) string {
	special := `\.+*?()|[]{}^$`
	out := make([]rune, 0, len(s))
	for _, r := range s {
		for _, sp := range special {
			if r == sp {
				out = append(out, '\\')
				break
			}
		}
		out = append(out, r)
	}
	return string(out)
}
