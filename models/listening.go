package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lernquest/internal/listening"
)

// ListeningAttempt records one scored listening exercise.
type ListeningAttempt struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID         string             `bson:"userId" json:"userId"`
	ReferenceText  string             `bson:"referenceText" json:"referenceText"`
	HypothesisText string             `bson:"hypothesisText" json:"hypothesisText"`
	Difficulty     string             `bson:"difficulty" json:"difficulty"`
	Result         listening.Result   `bson:"result" json:"result"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// DifficultyActivity aggregates attempts for one difficulty level.
type DifficultyActivity struct {
	Difficulty   string  `bson:"_id" json:"difficulty"`
	Attempts     int64   `bson:"attempts" json:"attempts"`
	AverageScore float64 `bson:"averageScore" json:"averageScore"`
	ExactMatches int64   `bson:"exactMatches" json:"exactMatches"`
}

// ActivitySummary is the admin dashboard view of learner activity.
type ActivitySummary struct {
	Since         time.Time            `json:"since"`
	TotalAttempts int64                `json:"totalAttempts"`
	ActiveUsers   int64                `json:"activeUsers"`
	AverageScore  float64              `json:"averageScore"`
	ByDifficulty  []DifficultyActivity `json:"byDifficulty"`
}
