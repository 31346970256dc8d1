package mongo

import (
	"context"
	"fmt"
	"time"

	"golfProShop/domain"
	mongodb "golfProShop/pkg/database/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VisitRepository records storefront page views to the document store
// and answers visit counts for the analytics conversion rate.
type VisitRepository struct {
	coll *mongo.Collection
}

func NewVisitRepository(db *mongodb.MongoDB) *VisitRepository {
	repo := &VisitRepository{
		coll: db.Collection("visits"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "path", Value: 1}, {Key: "timestamp", Value: -1}},
		},
	}

	_, _ = repo.coll.Indexes().CreateMany(ctx, indexes)

	return repo
}

func (r *VisitRepository) RecordVisit(ctx context.Context, event *domain.VisitEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	_, err := r.coll.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to insert visit event: %w", err)
	}

	return nil
}

// CountVisits counts page views with timestamp in [start, end).
// Zero bounds are open-ended.
func (r *VisitRepository) CountVisits(ctx context.Context, window domain.Window) (int64, error) {
	filter := bson.M{}

	tsFilter := bson.M{}
	if !window.Start.IsZero() {
		tsFilter["$gte"] = window.Start
	}
	if !window.End.IsZero() {
		tsFilter["$lt"] = window.End
	}
	if len(tsFilter) > 0 {
		filter["timestamp"] = tsFilter
	}

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}

	return count, nil
}

// CountUniqueSessions groups visits by session within the window.
func (r *VisitRepository) CountUniqueSessions(ctx context.Context, window domain.Window) (int64, error) {
	match := bson.M{}
	if !window.Start.IsZero() || !window.End.IsZero() {
		tsFilter := bson.M{}
		if !window.Start.IsZero() {
			tsFilter["$gte"] = window.Start
		}
		if !window.End.IsZero() {
			tsFilter["$lt"] = window.End
		}
		match["timestamp"] = tsFilter
	}

	pipeline := []bson.M{
		{"$match": match},
		{
			"$group": bson.M{
				"_id": "$session_id",
			},
		},
		{
			"$count": "unique_sessions",
		},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate unique sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		UniqueSessions int64 `bson:"unique_sessions"`
	}

	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode unique sessions result: %w", err)
		}
		return result.UniqueSessions, nil
	}

	return 0, nil
}
