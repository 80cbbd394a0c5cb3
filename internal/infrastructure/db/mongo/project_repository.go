package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devshowcase/showcase-api/internal/core/domain"
	"github.com/devshowcase/showcase-api/internal/core/ports"
)

// ProjectRepository implements ports.ProjectRepository using MongoDB.
type ProjectRepository struct {
	coll *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(collectionProjects)}
}

type mongoProject struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Title         string               `bson:"title"`
	Description   string               `bson:"description"`
	DriveFileID   string               `bson:"drive_file_id,omitempty"`
	Media         []string             `bson:"media"`
	Tags          []string             `bson:"tags"`
	AuthorID      primitive.ObjectID   `bson:"author_id"`
	CategoryID    *primitive.ObjectID  `bson:"category_id,omitempty"`
	Visibility    string               `bson:"visibility"`
	IsFeatured    bool                 `bson:"is_featured"`
	ViewCount     int64                `bson:"view_count"`
	LikeCount     int64                `bson:"like_count"`
	BookmarkCount int64                `bson:"bookmark_count"`
	CommentIDs    []primitive.ObjectID `bson:"comment_ids"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}

func (mp *mongoProject) toDomain() *domain.Project {
	p := &domain.Project{
		ID:            mp.ID.Hex(),
		Title:         mp.Title,
		Description:   mp.Description,
		DriveFileID:   mp.DriveFileID,
		Media:         nonNil(mp.Media),
		Tags:          nonNil(mp.Tags),
		AuthorID:      mp.AuthorID.Hex(),
		Visibility:    domain.Visibility(mp.Visibility),
		IsFeatured:    mp.IsFeatured,
		ViewCount:     mp.ViewCount,
		LikeCount:     mp.LikeCount,
		BookmarkCount: mp.BookmarkCount,
		CommentIDs:    hexIDs(mp.CommentIDs),
		CreatedAt:     mp.CreatedAt,
		UpdatedAt:     mp.UpdatedAt,
	}
	if mp.CategoryID != nil {
		p.CategoryID = mp.CategoryID.Hex()
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	authorID, ok := objectID(p.AuthorID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProject{
		Title:       p.Title,
		Description: p.Description,
		DriveFileID: p.DriveFileID,
		Media:       nonNil(p.Media),
		Tags:        nonNil(p.Tags),
		AuthorID:    authorID,
		Visibility:  string(p.Visibility),
		IsFeatured:  p.IsFeatured,
		CommentIDs:  []primitive.ObjectID{},
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != "" {
		cid, ok := objectID(p.CategoryID)
		if !ok {
			return nil, domain.ErrCategoryNotFound
		}
		doc.CategoryID = &cid
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProject
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProjectRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Project, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.Project{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
}

// IncrementViews bumps the view counter in a single atomic update.
func (r *ProjectRepository) IncrementViews(ctx context.Context, id string) (*domain.Project, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{"$inc": bson.M{"view_count": 1}})
}

func (r *ProjectRepository) Update(ctx context.Context, id string, patch ports.ProjectPatch) (*domain.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.DriveFileID != nil {
		set["drive_file_id"] = *patch.DriveFileID
	}
	if patch.Media != nil {
		set["media"] = nonNil(*patch.Media)
	}
	if patch.Tags != nil {
		set["tags"] = nonNil(*patch.Tags)
	}
	if patch.CategoryID != nil {
		cid, ok := objectID(*patch.CategoryID)
		if !ok {
			return nil, domain.ErrCategoryNotFound
		}
		set["category_id"] = cid
	}
	if patch.Visibility != nil {
		set["visibility"] = string(*patch.Visibility)
	}

	return r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
}

func (r *ProjectRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProject
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mp)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// List returns one page of matching projects and the total match count.
func (r *ProjectRepository) List(ctx context.Context, f ports.ListProjectsFilter) ([]*domain.Project, int64, error) {
	filter := bson.M{}
	if f.PublicOnly {
		filter["visibility"] = string(domain.VisibilityPublic)
	}
	if f.CategoryID != "" {
		cid, ok := objectID(f.CategoryID)
		if !ok {
			return []*domain.Project{}, 0, nil
		}
		filter["category_id"] = cid
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"tags": re},
		}
	}

	countCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	total, err := r.coll.CountDocuments(countCtx, filter)
	cancel()
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	opts := options.Find().
		SetSort(sortFor(f.SortBy)).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	projects, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

func sortFor(sortBy string) bson.D {
	switch sortBy {
	case ports.SortByLikes:
		return bson.D{{Key: "like_count", Value: -1}, {Key: "created_at", Value: -1}}
	case ports.SortByPopularity:
		return bson.D{{Key: "view_count", Value: -1}, {Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

func (r *ProjectRepository) Featured(ctx context.Context, limit int) ([]*domain.Project, error) {
	filter := bson.M{"is_featured": true, "visibility": string(domain.VisibilityPublic)}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(int64(limit))
	return r.find(ctx, filter, opts)
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find projects: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoProject
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}

	projects := make([]*domain.Project, 0, len(docs))
	for i := range docs {
		projects = append(projects, docs[i].toDomain())
	}
	return projects, nil
}

type mongoAuthorStats struct {
	AuthorID     primitive.ObjectID `bson:"author_id"`
	FullName     string             `bson:"full_name"`
	Email        string             `bson:"email"`
	Role         string             `bson:"role"`
	Bio          string             `bson:"bio"`
	Skills       []string           `bson:"skills"`
	SocialLinks  map[string]string  `bson:"social_links"`
	ProjectCount int64              `bson:"project_count"`
}

// TopAuthors groups projects by author, joins the author's profile and
// returns the authors with the most projects first.
func (r *ProjectRepository) TopAuthors(ctx context.Context, limit int) ([]ports.AuthorStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$author_id"},
			{Key: "project_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "project_count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: "$author"}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "author_id", Value: "$_id"},
			{Key: "full_name", Value: "$author.full_name"},
			{Key: "email", Value: "$author.email"},
			{Key: "role", Value: "$author.role"},
			{Key: "bio", Value: "$author.profile.bio"},
			{Key: "skills", Value: "$author.profile.skills"},
			{Key: "social_links", Value: "$author.profile.social_links"},
			{Key: "project_count", Value: 1},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate authors: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoAuthorStats
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode authors: %w", err)
	}

	out := make([]ports.AuthorStats, 0, len(docs))
	for _, d := range docs {
		out = append(out, ports.AuthorStats{
			AuthorID:     d.AuthorID.Hex(),
			FullName:     d.FullName,
			Email:        d.Email,
			Role:         d.Role,
			Bio:          d.Bio,
			Skills:       nonNil(d.Skills),
			SocialLinks:  d.SocialLinks,
			ProjectCount: d.ProjectCount,
		})
	}
	return out, nil
}

func (r *ProjectRepository) SetFeatured(ctx context.Context, id string, featured bool) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{"is_featured": featured, "updated_at": time.Now().UTC()}})
}

func (r *ProjectRepository) AddComment(ctx context.Context, projectID, commentID string) error {
	cid, ok := objectID(commentID)
	if !ok {
		return domain.ErrCommentNotFound
	}
	return r.updateOne(ctx, projectID, bson.M{"$push": bson.M{"comment_ids": cid}})
}

func (r *ProjectRepository) RemoveComment(ctx context.Context, projectID, commentID string) error {
	cid, ok := objectID(commentID)
	if !ok {
		return domain.ErrCommentNotFound
	}
	return r.updateOne(ctx, projectID, bson.M{"$pull": bson.M{"comment_ids": cid}})
}

// AdjustCounter adds delta to the like or bookmark counter with an update
// pipeline so the counter never drops below zero.
func (r *ProjectRepository) AdjustCounter(ctx context.Context, projectID string, kind domain.EngagementKind, delta int64) error {
	field := "like_count"
	if kind == domain.KindBookmark {
		field = "bookmark_count"
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: field, Value: bson.D{{Key: "$max", Value: bson.A{
				0,
				bson.D{{Key: "$add", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, 0}}}, delta}}},
			}}}},
		}}},
	}
	return r.updateOne(ctx, projectID, update)
}

func (r *ProjectRepository) updateOne(ctx context.Context, id string, update interface{}) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}
