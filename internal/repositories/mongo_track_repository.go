package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"jukejam/internal/models"
)

// trackDocument is the stored shape of a catalog track
type trackDocument struct {
	TrackID     string               `bson:"track_id"`
	Title       string               `bson:"title"`
	ArtistName  string               `bson:"artist_name"`
	AlbumName   string               `bson:"album_name,omitempty"`
	Genre       string               `bson:"genre"`
	DurationMs  int                  `bson:"duration_ms,omitempty"`
	Popularity  *int                 `bson:"popularity,omitempty"`
	MoodBucket  string               `bson:"mood_bucket"`
	EnergyLabel string               `bson:"energy_label"`
	MoodLabel   string               `bson:"mood_label,omitempty"`
	TempoLabel  string               `bson:"tempo_label,omitempty"`
	Features    *models.AudioFeatures `bson:"features,omitempty"`
}

func newTrackDocument(t models.Track) trackDocument {
	popularity := t.Popularity
	features := t.Features
	return trackDocument{
		TrackID:     string(t.ID),
		Title:       t.Title,
		ArtistName:  t.ArtistName,
		AlbumName:   t.AlbumName,
		Genre:       t.Genre,
		DurationMs:  t.DurationMs,
		Popularity:  &popularity,
		MoodBucket:  string(t.MoodBucket),
		EnergyLabel: t.EnergyLabel,
		MoodLabel:   t.MoodLabel,
		TempoLabel:  t.TempoLabel,
		Features:    &features,
	}
}

// toTrack resolves defaults for fields older documents may lack
func (d trackDocument) toTrack() models.Track {
	popularity := models.DefaultPopularity
	if d.Popularity != nil {
		popularity = *d.Popularity
	}
	features := models.NeutralAudioFeatures()
	if d.Features != nil {
		features = *d.Features
	}
	return models.Track{
		ID:          models.TrackID(d.TrackID),
		Title:       d.Title,
		ArtistName:  d.ArtistName,
		AlbumName:   d.AlbumName,
		Genre:       d.Genre,
		DurationMs:  d.DurationMs,
		Popularity:  popularity,
		MoodBucket:  models.ParseMood(d.MoodBucket),
		EnergyLabel: d.EnergyLabel,
		MoodLabel:   d.MoodLabel,
		TempoLabel:  d.TempoLabel,
		Features:    features,
	}
}

// mongoTrackRepository implements TrackRepository using MongoDB
type mongoTrackRepository struct {
	collection *mongo.Collection
}

// NewMongoTrackRepository creates a new MongoDB-backed track repository
func NewMongoTrackRepository(db *models.Database) TrackRepository {
	return &mongoTrackRepository{
		collection: db.DB.Collection(models.TracksCollection),
	}
}

// LoadAll streams the whole collection ordered by track id
func (r *mongoTrackRepository) LoadAll(ctx context.Context) ([]models.Track, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "track_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer cursor.Close(ctx)

	var tracks []models.Track
	for cursor.Next(ctx) {
		var doc trackDocument
		if err := cursor.Decode(&doc); err != nil {
			slog.Error("Failed to decode track", "error", err)
			continue
		}
		if doc.TrackID == "" {
			continue
		}
		tracks = append(tracks, doc.toTrack())
	}

	return tracks, cursor.Err()
}

// SaveMany upserts tracks keyed by track_id in a single bulk write
func (r *mongoTrackRepository) SaveMany(ctx context.Context, tracks []models.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(tracks))
	for _, t := range tracks {
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"track_id": string(t.ID)}).
			SetReplacement(newTrackDocument(t)).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to save tracks: %w", err)
	}

	slog.Info("Saved tracks", "upserted", result.UpsertedCount, "modified", result.ModifiedCount)
	return nil
}

// Count returns the number of stored tracks
func (r *mongoTrackRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}
