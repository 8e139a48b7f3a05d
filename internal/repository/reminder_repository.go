package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReminderRepository struct {
	collection *mongo.Collection
}

func NewReminderRepository(db *mongo.Database) *ReminderRepository {
	return &ReminderRepository{
		collection: db.Collection("reminders"),
	}
}

// CreateReminder inserts a new reminder record.
func (r *ReminderRepository) CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error) {
	reminder.CreatedAt = time.Now()
	reminder.IsActive = true

	result, err := r.collection.InsertOne(ctx, reminder)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert reminder")
		return nil, fmt.Errorf("failed to create reminder: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		reminder.ID = insertedID
	}

	logrus.WithField("reminderID", reminder.ID.Hex()).Info("Reminder created")
	return reminder, nil
}

// GetRemindersByPlan returns all reminders for a study plan ordered by
// their scheduled time.
func (r *ReminderRepository) GetRemindersByPlan(ctx context.Context, planID primitive.ObjectID) ([]models.Reminder, error) {
	filter := bson.M{"study_plan_id": planID}
	opts := options.Find().SetSort(bson.D{{Key: "scheduled_for", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminders: %v", err)
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %v", err)
	}
	return reminders, nil
}

// GetActiveReminders returns every reminder still flagged active. Time
// filtering happens in the service layer.
func (r *ReminderRepository) GetActiveReminders(ctx context.Context) ([]models.Reminder, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active reminders: %v", err)
	}
	defer cursor.Close(ctx)

	var reminders []models.Reminder
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %v", err)
	}
	return reminders, nil
}

// DeactivateReminder flags a reminder inactive so it drops out of
// "upcoming" queries.
func (r *ReminderRepository) DeactivateReminder(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		logrus.WithError(err).WithField("reminderID", id.Hex()).Error("Failed to deactivate reminder")
		return fmt.Errorf("failed to deactivate reminder: %v", err)
	}
	return nil
}
