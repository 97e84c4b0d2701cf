package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"lernquest/models"
)

// AdminRepository reads and writes the admins collection.
type AdminRepository struct {
	coll *mongo.Collection
}

func NewAdminRepository(database *mongo.Database) *AdminRepository {
	return &AdminRepository{coll: database.Collection("admins")}
}

// FindByEmail returns ErrNotFound when no admin has the email.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding admin: %w", err)
	}
	return &admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, admin); err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	return nil
}

// RecordLogin stamps the admin's last successful login.
func (r *AdminRepository) RecordLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"lastLoginAt": at, "updatedAt": at}}
	res, err := r.coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("recording admin login: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
