package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/teamtrack/tracker-api/internal/core/domain"
	"github.com/teamtrack/tracker-api/internal/core/ports"
)

const collectionSprints = "sprints"

type SprintRepository struct {
	col *mongo.Collection
}

func NewSprintRepository(db *mongo.Database) *SprintRepository {
	return &SprintRepository{col: db.Collection(collectionSprints)}
}

func (r *SprintRepository) Insert(ctx context.Context, s *domain.Sprint) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if s.ID == "" {
		s.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return err
	}
	return nil
}

func (r *SprintRepository) FindByID(ctx context.Context, id string) (*domain.Sprint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Sprint
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSprintNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SprintRepository) List(ctx context.Context, filter ports.SprintFilter) ([]domain.Sprint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if !filter.All {
		query["project"] = bson.M{"$in": filter.ProjectIDs}
	}

	cur, err := r.col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	sprints := []domain.Sprint{}
	if err := cur.All(ctx, &sprints); err != nil {
		return nil, err
	}
	return sprints, nil
}

func (r *SprintRepository) Update(ctx context.Context, s *domain.Sprint) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": s.ID}, bson.M{"$set": bson.M{
		"project":    s.Project,
		"name":       s.Name,
		"goal":       s.Goal,
		"start_date": s.StartDate,
		"end_date":   s.EndDate,
		"updated_at": s.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrSprintNotFound
	}
	return nil
}

func (r *SprintRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrSprintNotFound
	}
	return nil
}

func (r *SprintRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// EnsureIndexes creates the index the projectId filter relies on.
func (r *SprintRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "project", Value: 1}}},
	})
	return err
}
