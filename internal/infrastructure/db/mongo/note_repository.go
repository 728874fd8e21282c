package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

const collectionNotes = "notes"

type NoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	return &NoteRepository{col: db.Collection(collectionNotes)}
}

// noteDocument stores the editor state as an embedded BSON document so it
// stays queryable. published_at and deleted_at are stored as null when unset.
type noteDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	AuthorID      primitive.ObjectID   `bson:"author"`
	Title         string               `bson:"title"`
	Summary       string               `bson:"summary"`
	Content       bson.Raw             `bson:"content_json"`
	Visibility    string               `bson:"visibility"`
	Slug          string               `bson:"slug"`
	LikedBy       []primitive.ObjectID `bson:"liked_by"`
	CommentsCount int                  `bson:"comments_count"`
	PublishedAt   *time.Time           `bson:"published_at"`
	DeletedAt     *time.Time           `bson:"deleted_at"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
	Author        *authorDocument      `bson:"author_doc,omitempty"`
}

func (d *noteDocument) toDomain() (*domain.Note, error) {
	content, err := contentToJSON(d.Content)
	if err != nil {
		return nil, err
	}

	likedBy := make([]string, len(d.LikedBy))
	for i, id := range d.LikedBy {
		likedBy[i] = id.Hex()
	}

	return &domain.Note{
		ID:            d.ID.Hex(),
		AuthorID:      d.AuthorID.Hex(),
		Author:        d.Author.toDomain(),
		Title:         d.Title,
		Summary:       d.Summary,
		Content:       content,
		Visibility:    domain.Visibility(d.Visibility),
		Slug:          d.Slug,
		LikedBy:       likedBy,
		CommentsCount: d.CommentsCount,
		PublishedAt:   d.PublishedAt,
		DeletedAt:     d.DeletedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

// contentToBSON converts editor JSON into a BSON document.
func contentToBSON(raw json.RawMessage) (bson.Raw, error) {
	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, domain.ErrContentInvalid
	}
	b, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return bson.Raw(b), nil
}

func contentToJSON(raw bson.Raw) (json.RawMessage, error) {
	if len(raw) == 0 {
		return json.RawMessage("{}"), nil
	}
	b, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	return json.RawMessage(b), nil
}

func liveFilter(extra bson.D) bson.D {
	return append(bson.D{{Key: "deleted_at", Value: nil}}, extra...)
}

func (r *NoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	authorID, err := objectID(note.AuthorID)
	if err != nil {
		return nil, err
	}
	content, err := contentToBSON(note.Content)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := noteDocument{
		AuthorID:    authorID,
		Title:       note.Title,
		Summary:     note.Summary,
		Content:     content,
		Visibility:  string(note.Visibility),
		Slug:        note.Slug,
		LikedBy:     []primitive.ObjectID{},
		PublishedAt: note.PublishedAt,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateField
		}
		return nil, fmt.Errorf("insert note: %w", err)
	}

	created := *note
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	created.LikedBy = []string{}
	return &created, nil
}

func (r *NoteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, liveFilter(bson.D{{Key: "_id", Value: oid}}))
}

func (r *NoteRepository) FindBySlug(ctx context.Context, slug string) (*domain.Note, error) {
	return r.findOne(ctx, liveFilter(bson.D{{Key: "slug", Value: slug}}))
}

func (r *NoteRepository) findOne(ctx context.Context, match bson.D) (*domain.Note, error) {
	notes, err := r.aggregate(ctx, match, nil, 0, 1)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, domain.ErrNoteNotFound
	}
	return notes[0], nil
}

// aggregate runs match → sort → skip/limit → author join, returning notes
// with their author summary populated.
func (r *NoteRepository) aggregate(ctx context.Context, match, sort bson.D, skip, limit int64) ([]*domain.Note, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{{{Key: "$match", Value: match}}}
	if len(sort) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: sort}})
	}
	if skip > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: skip}})
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	pipeline = append(pipeline, authorLookup()...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer cur.Close(ctx)

	var docs []noteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	notes := make([]*domain.Note, 0, len(docs))
	for i := range docs {
		n, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

// authorLookup joins the author's public fields as author_doc.
func authorLookup() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author_doc"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author_doc"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "author_doc.password_hash", Value: 0},
			{Key: "author_doc.refresh_token", Value: 0},
		}}},
	}
}

// Update writes the mutable fields of an existing, live note.
func (r *NoteRepository) Update(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	oid, err := objectID(note.ID)
	if err != nil {
		return nil, err
	}
	content, err := contentToBSON(note.Content)
	if err != nil {
		return nil, err
	}

	uctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(uctx, liveFilter(bson.D{{Key: "_id", Value: oid}}), bson.M{"$set": bson.M{
		"title":        note.Title,
		"summary":      note.Summary,
		"content_json": content,
		"visibility":   string(note.Visibility),
		"slug":         note.Slug,
		"published_at": note.PublishedAt,
		"updated_at":   note.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateField
		}
		return nil, fmt.Errorf("update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNoteNotFound
	}
	return r.FindByID(ctx, note.ID)
}

func (r *NoteRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return r.updateLive(ctx, id, bson.M{"$set": bson.M{"deleted_at": at, "updated_at": at}})
}

func (r *NoteRepository) AddLike(ctx context.Context, id, userID string) error {
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	return r.updateLive(ctx, id, bson.M{"$addToSet": bson.M{"liked_by": uid}})
}

func (r *NoteRepository) RemoveLike(ctx context.Context, id, userID string) error {
	uid, err := objectID(userID)
	if err != nil {
		return err
	}
	return r.updateLive(ctx, id, bson.M{"$pull": bson.M{"liked_by": uid}})
}

func (r *NoteRepository) updateLive(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, liveFilter(bson.D{{Key: "_id", Value: oid}}), update)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}

func (r *NoteRepository) List(ctx context.Context, filter ports.NoteFilter) ([]*domain.Note, error) {
	match, err := noteMatch(filter)
	if err != nil {
		return nil, err
	}

	sort := bson.D{{Key: "created_at", Value: -1}}
	if filter.Visibility == domain.VisibilityPublic {
		sort = bson.D{{Key: "published_at", Value: -1}, {Key: "created_at", Value: -1}}
	}
	return r.aggregate(ctx, match, sort, 0, 0)
}

// Search runs a full-text query over public, live notes.
func (r *NoteRepository) Search(ctx context.Context, query string) ([]*domain.Note, error) {
	match := bson.D{
		{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}},
		{Key: "visibility", Value: string(domain.VisibilityPublic)},
		{Key: "deleted_at", Value: nil},
	}
	return r.aggregate(ctx, match, bson.D{{Key: "published_at", Value: -1}}, 0, 0)
}

func (r *NoteRepository) Count(ctx context.Context, filter ports.NoteFilter) (int64, error) {
	match, err := noteMatch(filter)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

func noteMatch(filter ports.NoteFilter) (bson.D, error) {
	match := bson.D{}
	if !filter.IncludeDeleted {
		match = liveFilter(match)
	}
	if filter.AuthorID != "" {
		oid, err := objectID(filter.AuthorID)
		if err != nil {
			return nil, err
		}
		match = append(match, bson.E{Key: "author", Value: oid})
	}
	if filter.Visibility != "" {
		match = append(match, bson.E{Key: "visibility", Value: string(filter.Visibility)})
	}
	return match, nil
}

// EnsureIndexes creates necessary indexes on the notes collection.
func (r *NoteRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "author", Value: 1}, {Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "visibility", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "summary", Value: "text"}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
