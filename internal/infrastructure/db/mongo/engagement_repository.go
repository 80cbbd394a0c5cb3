package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devshowcase/showcase-api/internal/core/domain"
)

// EngagementRepository stores likes and bookmarks in two join collections,
// each with a unique (user_id, project_id) index.
type EngagementRepository struct {
	likes     *mongo.Collection
	bookmarks *mongo.Collection
}

func NewEngagementRepository(db *mongo.Database) *EngagementRepository {
	return &EngagementRepository{
		likes:     db.Collection(collectionLikes),
		bookmarks: db.Collection(collectionBookmarks),
	}
}

type mongoEngagement struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ProjectID primitive.ObjectID `bson:"project_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *EngagementRepository) coll(kind domain.EngagementKind) *mongo.Collection {
	if kind == domain.KindBookmark {
		return r.bookmarks
	}
	return r.likes
}

func pairFilter(userID, projectID string) (bson.M, bool) {
	uid, ok := objectID(userID)
	if !ok {
		return nil, false
	}
	pid, ok := objectID(projectID)
	if !ok {
		return nil, false
	}
	return bson.M{"user_id": uid, "project_id": pid}, true
}

func (r *EngagementRepository) Insert(ctx context.Context, e *domain.Engagement) error {
	uid, ok := objectID(e.UserID)
	if !ok {
		return domain.ErrUserNotFound
	}
	pid, ok := objectID(e.ProjectID)
	if !ok {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll(e.Kind).InsertOne(ctx, mongoEngagement{UserID: uid, ProjectID: pid, CreatedAt: e.CreatedAt})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEngagementExists
		}
		return fmt.Errorf("insert %s: %w", e.Kind, err)
	}
	return nil
}

func (r *EngagementRepository) Delete(ctx context.Context, kind domain.EngagementKind, userID, projectID string) error {
	filter, ok := pairFilter(userID, projectID)
	if !ok {
		return domain.ErrEngagementNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll(kind).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEngagementNotFound
	}
	return nil
}

func (r *EngagementRepository) Exists(ctx context.Context, kind domain.EngagementKind, userID, projectID string) (bool, error) {
	filter, ok := pairFilter(userID, projectID)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll(kind).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s: %w", kind, err)
	}
	return n > 0, nil
}

func (r *EngagementRepository) ExistsAny(ctx context.Context, kind domain.EngagementKind, userID string, projectIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(projectIDs))
	uid, ok := objectID(userID)
	pids := objectIDs(projectIDs)
	if !ok || len(pids) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": uid, "project_id": bson.M{"$in": pids}}
	cur, err := r.coll(kind).Find(ctx, filter, options.Find().SetProjection(bson.M{"project_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var docs []mongoEngagement
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	for _, d := range docs {
		out[d.ProjectID.Hex()] = true
	}
	return out, nil
}

func (r *EngagementRepository) CountByProject(ctx context.Context, kind domain.EngagementKind, projectID string) (int64, error) {
	pid, ok := objectID(projectID)
	if !ok {
		return 0, nil
	}
	return r.count(ctx, kind, bson.M{"project_id": pid})
}

func (r *EngagementRepository) Count(ctx context.Context, kind domain.EngagementKind) (int64, error) {
	return r.count(ctx, kind, bson.M{})
}

func (r *EngagementRepository) count(ctx context.Context, kind domain.EngagementKind, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll(kind).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", kind, err)
	}
	return n, nil
}

// ListByUser returns a user's records of one kind, newest first.
func (r *EngagementRepository) ListByUser(ctx context.Context, kind domain.EngagementKind, userID string) ([]*domain.Engagement, error) {
	uid, ok := objectID(userID)
	if !ok {
		return []*domain.Engagement{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll(kind).Find(ctx, bson.M{"user_id": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var docs []mongoEngagement
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	out := make([]*domain.Engagement, 0, len(docs))
	for _, d := range docs {
		out = append(out, &domain.Engagement{
			Kind:      kind,
			UserID:    d.UserID.Hex(),
			ProjectID: d.ProjectID.Hex(),
			CreatedAt: d.CreatedAt,
		})
	}
	return out, nil
}

func (r *EngagementRepository) DeleteByProject(ctx context.Context, kind domain.EngagementKind, projectID string) error {
	pid, ok := objectID(projectID)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.coll(kind).DeleteMany(ctx, bson.M{"project_id": pid}); err != nil {
		return fmt.Errorf("delete project %s records: %w", kind, err)
	}
	return nil
}
