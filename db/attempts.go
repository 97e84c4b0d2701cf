package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"lernquest/models"
)

const attemptsCollection = "listening_attempts"

// AttemptRepository stores listening attempts in MongoDB.
type AttemptRepository struct {
	coll *mongo.Collection
}

func NewAttemptRepository(database *mongo.Database) *AttemptRepository {
	return &AttemptRepository{coll: database.Collection(attemptsCollection)}
}

func (r *AttemptRepository) SaveAttempt(ctx context.Context, attempt *models.ListeningAttempt) error {
	if attempt.CreatedAt.IsZero() {
		attempt.CreatedAt = time.Now()
	}
	res, err := r.coll.InsertOne(ctx, attempt)
	if err != nil {
		return fmt.Errorf("saving listening attempt: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		attempt.ID = id
	}
	return nil
}

// RecentAttempts returns the newest attempts of userID, newest first.
func (r *AttemptRepository) RecentAttempts(ctx context.Context, userID string, limit int) ([]models.ListeningAttempt, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("finding attempts: %w", err)
	}
	defer cursor.Close(ctx)

	attempts := []models.ListeningAttempt{}
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("decoding attempts: %w", err)
	}
	return attempts, nil
}

// ActivitySummary aggregates attempts created at or after since.
func (r *AttemptRepository) ActivitySummary(ctx context.Context, since time.Time) (models.ActivitySummary, error) {
	filter := bson.D{{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}}}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$difficulty"},
			{Key: "attempts", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "averageScore", Value: bson.D{{Key: "$avg", Value: "$result.score"}}},
			{Key: "exactMatches", Value: bson.D{{Key: "$sum", Value: bson.D{
				{Key: "$cond", Value: bson.A{"$result.exactMatch", 1, 0}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ActivitySummary{}, fmt.Errorf("aggregating attempts: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.DifficultyActivity
	if err := cursor.All(ctx, &rows); err != nil {
		return models.ActivitySummary{}, fmt.Errorf("decoding activity: %w", err)
	}

	users, err := r.coll.Distinct(ctx, "userId", filter)
	if err != nil {
		return models.ActivitySummary{}, fmt.Errorf("counting active users: %w", err)
	}

	return summarize(since, rows, int64(len(users))), nil
}

// summarize folds per-difficulty rows into the dashboard totals. The overall
// average is weighted by attempt count.
func summarize(since time.Time, rows []models.DifficultyActivity, activeUsers int64) models.ActivitySummary {
	summary := models.ActivitySummary{
		Since:        since,
		ActiveUsers:  activeUsers,
		ByDifficulty: []models.DifficultyActivity{},
	}
	var weighted float64
	for _, row := range rows {
		summary.TotalAttempts += row.Attempts
		weighted += row.AverageScore * float64(row.Attempts)
		summary.ByDifficulty = append(summary.ByDifficulty, row)
	}
	if summary.TotalAttempts > 0 {
		summary.AverageScore = weighted / float64(summary.TotalAttempts)
	}
	return summary
}
