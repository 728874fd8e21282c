package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
)

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		login := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "notes.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Ann"},
			{Key: "email", Value: "ann@x.com"},
			{Key: "password_hash", Value: "$2a$hash"},
			{Key: "role", Value: "admin"},
			{Key: "refresh_token", Value: "rt"},
			{Key: "last_login_at", Value: login},
		}))

		u, err := repo.FindByEmail(context.Background(), "  Ann@X.com ")
		if err != nil {
			mt.Fatalf("FindByEmail returned error: %v", err)
		}
		if u.ID != id.Hex() {
			mt.Fatalf("expected id %s, got %s", id.Hex(), u.ID)
		}
		if u.Role != domain.RoleAdmin || u.RefreshToken != "rt" || u.PasswordHash != "$2a$hash" {
			mt.Fatalf("unexpected user: %+v", u)
		}
		if u.LastLoginAt == nil || !u.LastLoginAt.Equal(login) {
			mt.Fatalf("unexpected lastLoginAt: %v", u.LastLoginAt)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "notes.users", mtest.FirstBatch))

		if _, err := repo.FindByEmail(context.Background(), "nobody@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_FindByID_InvalidHex(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("invalid", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		if _, err := repo.FindByID(context.Background(), "not-an-id"); !errors.Is(err, domain.ErrInvalidID) {
			mt.Fatalf("expected ErrInvalidID, got %v", err)
		}
	})
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, err := repo.Create(context.Background(), &domain.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "h", Role: domain.RoleUser})
		if err != nil {
			mt.Fatalf("Create returned error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(u.ID); err != nil {
			mt.Fatalf("expected generated object id, got %q", u.ID)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: notes.users index: email_1",
		}))

		_, err := repo.Create(context.Background(), &domain.User{Name: "Ann", Email: "ann@x.com", Role: domain.RoleUser})
		if !errors.Is(err, domain.ErrEmailTaken) {
			mt.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})
}

func TestUserRepository_RecordLogin_Unmatched(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unmatched", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.RecordLogin(context.Background(), primitive.NewObjectID().Hex(), "rt", time.Now())
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("matched", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		if err := repo.ClearRefreshToken(context.Background(), primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("ClearRefreshToken returned error: %v", err)
		}
	})
}

func TestUserRepository_UpdateRole(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("updated", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Bob"},
			{Key: "email", Value: "bob@x.com"},
			{Key: "role", Value: "admin"},
		}}))

		u, err := repo.UpdateRole(context.Background(), id.Hex(), domain.RoleAdmin)
		if err != nil {
			mt.Fatalf("UpdateRole returned error: %v", err)
		}
		if u.Role != domain.RoleAdmin {
			mt.Fatalf("expected admin, got %s", u.Role)
		}
	})

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateRole(context.Background(), primitive.NewObjectID().Hex(), domain.RoleAdmin)
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_SearchAndCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("search", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "notes.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Ann"}, {Key: "email", Value: "ann@x.com"}, {Key: "role", Value: "user"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Annie"}, {Key: "email", Value: "annie@x.com"}, {Key: "role", Value: "admin"}},
		))

		users, err := repo.Search(context.Background(), "ann.")
		if err != nil {
			mt.Fatalf("Search returned error: %v", err)
		}
		if len(users) != 2 {
			mt.Fatalf("expected 2 users, got %d", len(users))
		}
	})

	mt.Run("count", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "notes.users", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}))

		n, err := repo.Count(context.Background())
		if err != nil {
			mt.Fatalf("Count returned error: %v", err)
		}
		if n != 3 {
			mt.Fatalf("expected 3, got %d", n)
		}
	})
}
