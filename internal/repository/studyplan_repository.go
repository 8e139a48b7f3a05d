package repository

import (
	"context"
	"errors"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrConflict is returned when a task-array rewrite raced a concurrent edit
// of the same study plan.
var ErrConflict = errors.New("study plan was modified concurrently")

// StudyPlanRepository handles database operations related to study plans.
type StudyPlanRepository struct {
	collection *mongo.Collection
}

// NewStudyPlanRepository creates a new instance of StudyPlanRepository.
func NewStudyPlanRepository(db *mongo.Database) *StudyPlanRepository {
	return &StudyPlanRepository{
		collection: db.Collection("studyPlans"),
	}
}

// CreateStudyPlan creates a new study plan in the database.
func (r *StudyPlanRepository) CreateStudyPlan(ctx context.Context, plan *models.StudyPlan) (*models.StudyPlan, error) {
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert study plan")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, errors.New("failed to cast inserted ID")
	}
	plan.ID = insertedID

	logger.Log.WithField("plan_id", plan.ID.Hex()).Info("Study plan created successfully")
	return plan, nil
}

// GetStudyPlanByID fetches a study plan by its ID.
func (r *StudyPlanRepository) GetStudyPlanByID(ctx context.Context, id primitive.ObjectID) (*models.StudyPlan, error) {
	var plan models.StudyPlan

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		logger.Log.WithError(err).WithField("plan_id", id.Hex()).Error("Failed to find study plan by ID")
		return nil, err
	}

	return &plan, nil
}

// UpdateStudyPlan updates a study plan's metadata in the database.
func (r *StudyPlanRepository) UpdateStudyPlan(ctx context.Context, id primitive.ObjectID, plan *models.StudyPlan) (*models.StudyPlan, error) {
	plan.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": plan},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("plan_id", id.Hex()).Error("Failed to update study plan")
		return nil, err
	}

	logger.Log.WithField("plan_id", id.Hex()).Info("Study plan updated successfully")
	return plan, nil
}

// DeleteStudyPlan deletes a study plan from the database by its ID.
func (r *StudyPlanRepository) DeleteStudyPlan(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("plan_id", id.Hex()).Error("Failed to delete study plan")
		return err
	}

	logger.Log.WithField("plan_id", id.Hex()).Info("Study plan deleted successfully")
	return nil
}

// ReplaceTasks rewrites the whole tasks array together with the progress
// derived from it. The write is guarded by the updated_at value the caller
// read the plan at; a mismatch means someone else wrote in between and the
// caller gets ErrConflict instead of a silent overwrite.
func (r *StudyPlanRepository) ReplaceTasks(ctx context.Context, id primitive.ObjectID, tasks []models.Task, progress float64, expectedUpdatedAt time.Time) error {
	filter := bson.M{"_id": id, "updated_at": expectedUpdatedAt}
	update := bson.M{"$set": bson.M{
		"tasks":      tasks,
		"progress":   progress,
		"updated_at": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithField("plan_id", id.Hex()).Error("Failed to replace tasks")
		return err
	}
	if result.MatchedCount == 0 {
		logger.Log.WithField("plan_id", id.Hex()).Warn("Task rewrite lost a concurrent edit race")
		return ErrConflict
	}

	return nil
}

// AddParticipant appends a participant reference with set-union semantics.
func (r *StudyPlanRepository) AddParticipant(ctx context.Context, id primitive.ObjectID, ref models.ParticipantRef) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$addToSet": bson.M{"participants": ref}, // Prevents duplicates
		"$set":      bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithField("plan_id", id.Hex()).Error("Failed to add participant to study plan")
		return err
	}

	logger.Log.WithField("plan_id", id.Hex()).Info("Participant added to study plan")
	return nil
}

// GetStudyPlansForUser fetches every plan the user owns or participates in.
func (r *StudyPlanRepository) GetStudyPlansForUser(ctx context.Context, uid primitive.ObjectID) ([]models.StudyPlan, error) {
	filter := bson.M{"$or": []bson.M{
		{"owner_id": uid},
		{"participants.uid": uid.Hex()},
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", uid.Hex()).Error("Failed to fetch study plans for user")
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.StudyPlan
	if err := cursor.All(ctx, &plans); err != nil {
		logger.Log.WithError(err).Error("Failed to decode study plans")
		return nil, err
	}

	return plans, nil
}

// GetPlansDueBetween fetches plans whose due date falls inside the given
// window, both ends inclusive.
func (r *StudyPlanRepository) GetPlansDueBetween(ctx context.Context, from, to time.Time) ([]models.StudyPlan, error) {
	filter := bson.M{"due_date": bson.M{"$gte": from, "$lte": to}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch plans by due date window")
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.StudyPlan
	if err := cursor.All(ctx, &plans); err != nil {
		logger.Log.WithError(err).Error("Failed to decode study plans")
		return nil, err
	}

	logger.Log.WithField("count", len(plans)).Info("Plans in deadline window fetched")
	return plans, nil
}

// GetAllPlans fetches every study plan.
func (r *StudyPlanRepository) GetAllPlans(ctx context.Context) ([]models.StudyPlan, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		logger.Log.WithError(err).Error("Failed to fetch all study plans")
		return nil, err
	}
	defer cursor.Close(ctx)

	var plans []models.StudyPlan
	if err := cursor.All(ctx, &plans); err != nil {
		logger.Log.WithError(err).Error("Failed to decode study plans")
		return nil, err
	}

	return plans, nil
}
