package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
)

const collectionComments = "comments"

// CommentRepository keeps notes.comments_count in step with the comments
// collection by pairing every insert and soft delete with a counter update in
// one transaction. Transactions need a replica set or sharded cluster.
type CommentRepository struct {
	client   *mongo.Client
	comments *mongo.Collection
	notes    *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		client:   db.Client(),
		comments: db.Collection(collectionComments),
		notes:    db.Collection(collectionNotes),
	}
}

type commentDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	NoteID    primitive.ObjectID `bson:"note"`
	AuthorID  primitive.ObjectID `bson:"author"`
	Body      string             `bson:"body"`
	EditedAt  *time.Time         `bson:"edited_at"`
	DeletedAt *time.Time         `bson:"deleted_at"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	Author    *authorDocument    `bson:"author_doc,omitempty"`
}

func (d *commentDocument) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        d.ID.Hex(),
		NoteID:    d.NoteID.Hex(),
		AuthorID:  d.AuthorID.Hex(),
		Author:    d.Author.toDomain(),
		Body:      d.Body,
		EditedAt:  d.EditedAt,
		DeletedAt: d.DeletedAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	noteID, err := objectID(comment.NoteID)
	if err != nil {
		return nil, err
	}
	authorID, err := objectID(comment.AuthorID)
	if err != nil {
		return nil, err
	}

	doc := commentDocument{
		ID:        primitive.NewObjectID(),
		NoteID:    noteID,
		AuthorID:  authorID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}

	err = r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.comments.InsertOne(sc, doc); err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		res, err := r.notes.UpdateOne(sc,
			liveFilter(bson.D{{Key: "_id", Value: noteID}}),
			bson.M{"$inc": bson.M{"comments_count": 1}},
		)
		if err != nil {
			return fmt.Errorf("increment comment count: %w", err)
		}
		if res.MatchedCount == 0 {
			return domain.ErrNoteNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := *comment
	created.ID = doc.ID.Hex()
	return &created, nil
}

func (r *CommentRepository) SoftDelete(ctx context.Context, comment *domain.Comment, at time.Time) error {
	id, err := objectID(comment.ID)
	if err != nil {
		return err
	}
	noteID, err := objectID(comment.NoteID)
	if err != nil {
		return err
	}

	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.comments.UpdateOne(sc,
			liveFilter(bson.D{{Key: "_id", Value: id}}),
			bson.M{"$set": bson.M{"deleted_at": at, "updated_at": at}},
		)
		if err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if res.MatchedCount == 0 {
			return domain.ErrCommentNotFound
		}
		_, err = r.notes.UpdateOne(sc,
			bson.D{{Key: "_id", Value: noteID}, {Key: "comments_count", Value: bson.M{"$gt": 0}}},
			bson.M{"$inc": bson.M{"comments_count": -1}},
		)
		if err != nil {
			return fmt.Errorf("decrement comment count: %w", err)
		}
		return nil
	})
}

func (r *CommentRepository) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc commentDocument
	if err := r.comments.FindOne(ctx, liveFilter(bson.D{{Key: "_id", Value: oid}})).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return doc.toDomain(), nil
}

// ListByNote returns one page of live comments, newest first.
func (r *CommentRepository) ListByNote(ctx context.Context, noteID string, page ports.Page) ([]*domain.Comment, error) {
	oid, err := objectID(noteID)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: liveFilter(bson.D{{Key: "note", Value: oid}})}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: int64(page.Limit)}},
	}
	pipeline = append(pipeline, authorLookup()...)

	cur, err := r.comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []commentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	comments := make([]*domain.Comment, len(docs))
	for i := range docs {
		comments[i] = docs[i].toDomain()
	}
	return comments, nil
}

func (r *CommentRepository) UpdateBody(ctx context.Context, id, body string, editedAt time.Time) (*domain.Comment, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc commentDocument
	err = r.comments.FindOneAndUpdate(ctx,
		liveFilter(bson.D{{Key: "_id", Value: oid}}),
		bson.M{"$set": bson.M{"body": body, "edited_at": editedAt, "updated_at": editedAt}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.comments.CountDocuments(ctx, liveFilter(nil))
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates necessary indexes on the comments collection.
func (r *CommentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.comments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "note", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	return err
}
