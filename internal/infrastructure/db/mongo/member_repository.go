package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/teamtrack/tracker-api/internal/core/domain"
)

const collectionMembers = "members"

type MemberRepository struct {
	col *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{col: db.Collection(collectionMembers)}
}

// Insert persists a new member and fills in the generated id.
func (r *MemberRepository) Insert(ctx context.Context, m *domain.Member) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if m.ID == "" {
		m.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return err
	}
	return nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Member
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Member
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemberRepository) List(ctx context.Context) ([]domain.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	members := []domain.Member{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// Update replaces the mutable fields of the member identified by m.ID.
// The password hash is only written when the caller set one.
func (r *MemberRepository) Update(ctx context.Context, m *domain.Member) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields := bson.M{
		"name":       m.Name,
		"email":      m.Email,
		"privilege":  m.Privilege,
		"updated_at": m.UpdatedAt,
	}
	if m.PasswordHash != "" {
		fields["password_hash"] = m.PasswordHash
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": m.ID}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) CountByIDs(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// EnsureIndexes creates the indexes the member queries rely on.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}
