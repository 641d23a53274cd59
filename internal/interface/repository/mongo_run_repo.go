package repository

import (
	"context"
	"fmt"
	"time"

	"reissue-service/internal/domain/entity"
	"reissue-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRunRepository implements RunRepository against MongoDB. State
// preconditions are enforced with conditional updates, so a transition
// that races a concurrent one simply finds no matching document.
type MongoRunRepository struct {
	collection *mongo.Collection
}

// NewMongoRunRepository creates a new run repository over the given database
func NewMongoRunRepository(db *mongo.Database) repository.RunRepository {
	collection := db.Collection("reissue_runs")

	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"runId": 1},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	createdIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}
	collection.Indexes().CreateOne(ctx, createdIndex)

	return &MongoRunRepository{
		collection: collection,
	}
}

// Create inserts a new run document
func (r *MongoRunRepository) Create(ctx context.Context, run *entity.Run) error {
	_, err := r.collection.InsertOne(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// Start transitions a Pending run to Processing
func (r *MongoRunRepository) Start(ctx context.Context, runID string) error {
	return r.transition(ctx, runID, entity.RunPending, bson.M{
		"state": entity.RunProcessing,
	})
}

// Complete transitions a Processing run to Completed with its tickets
func (r *MongoRunRepository) Complete(ctx context.Context, runID string, tickets []entity.Ticket, warnings []string) (*entity.Run, error) {
	if tickets == nil {
		tickets = []entity.Ticket{}
	}
	err := r.transition(ctx, runID, entity.RunProcessing, bson.M{
		"state":       entity.RunCompleted,
		"tickets":     tickets,
		"warnings":    warnings,
		"completedAt": time.Now(),
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, runID)
}

// Fail transitions a Processing run to Failed
func (r *MongoRunRepository) Fail(ctx context.Context, runID string, detail string) error {
	return r.transition(ctx, runID, entity.RunProcessing, bson.M{
		"state":       entity.RunFailed,
		"errorDetail": detail,
		"completedAt": time.Now(),
	})
}

// Cancel transitions a Processing run with no tickets to Cancelled
func (r *MongoRunRepository) Cancel(ctx context.Context, runID string) error {
	filter := bson.M{
		"runId": runID,
		"state": entity.RunProcessing,
		"$or": []bson.M{
			{"tickets": bson.M{"$size": 0}},
			{"tickets": nil},
		},
	}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"state":       entity.RunCancelled,
		"completedAt": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("failed to cancel run: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.transitionRejected(ctx, runID)
	}
	return nil
}

// Get returns one run by its identifier
func (r *MongoRunRepository) Get(ctx context.Context, runID string) (*entity.Run, error) {
	var run entity.Run
	err := r.collection.FindOne(ctx, bson.M{"runId": runID}).Decode(&run)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("run %s: %w", runID, entity.ErrRunNotFound)
		}
		return nil, err
	}
	return &run, nil
}

// List returns all runs, most-recent-first
func (r *MongoRunRepository) List(ctx context.Context) ([]entity.Run, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []entity.Run
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// transition performs a conditional state update and reports a lifecycle
// violation when no document matched
func (r *MongoRunRepository) transition(ctx context.Context, runID string, from entity.RunState, set bson.M) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"runId": runID, "state": from},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if result.MatchedCount == 0 {
		return r.transitionRejected(ctx, runID)
	}
	return nil
}

// transitionRejected distinguishes an unknown run from a lifecycle violation
func (r *MongoRunRepository) transitionRejected(ctx context.Context, runID string) error {
	if _, err := r.Get(ctx, runID); err != nil {
		return err
	}
	return fmt.Errorf("run %s: %w", runID, entity.ErrInvalidRunState)
}
