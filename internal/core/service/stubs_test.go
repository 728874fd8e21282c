package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bhutuklearning/Create-Your-Notes/internal/core/domain"
	"github.com/bhutuklearning/Create-Your-Notes/internal/core/ports"
	"github.com/bhutuklearning/Create-Your-Notes/internal/infrastructure/security"
)

// --- users ---

type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	seq   int

	clearErr error
	findErr  error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) mutate(id string, fn func(u *domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (r *stubUserRepo) RecordLogin(_ context.Context, id, token string, at time.Time) error {
	return r.mutate(id, func(u *domain.User) {
		u.RefreshToken = token
		u.LastLoginAt = &at
	})
}

func (r *stubUserRepo) SetRefreshToken(_ context.Context, id, token string) error {
	return r.mutate(id, func(u *domain.User) { u.RefreshToken = token })
}

func (r *stubUserRepo) ClearRefreshToken(_ context.Context, id string) error {
	if r.clearErr != nil {
		return r.clearErr
	}
	return r.mutate(id, func(u *domain.User) { u.RefreshToken = "" })
}

func (r *stubUserRepo) SetCredentials(_ context.Context, id, hash string, role domain.Role) error {
	return r.mutate(id, func(u *domain.User) {
		u.PasswordHash = hash
		u.Role = role
	})
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	if err := r.mutate(id, func(u *domain.User) { u.Role = role }); err != nil {
		return nil, err
	}
	return r.FindByID(context.Background(), id)
}

func (r *stubUserRepo) Search(_ context.Context, q string) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if q == "" || strings.Contains(strings.ToLower(u.Name+" "+u.Email), strings.ToLower(q)) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) stored(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := r.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("user %s not stored: %v", id, err)
	}
	return u
}

// --- notes ---

type stubNoteRepo struct {
	notes map[string]*domain.Note
	seq   int

	// collisions makes the next N creates/updates fail with a duplicate slug.
	collisions int
	slugs      []string
}

func newStubNoteRepo() *stubNoteRepo {
	return &stubNoteRepo{notes: make(map[string]*domain.Note)}
}

func cloneNote(n *domain.Note) *domain.Note {
	clone := *n
	clone.LikedBy = append([]string(nil), n.LikedBy...)
	return &clone
}

func (r *stubNoteRepo) collide(slug string) bool {
	r.slugs = append(r.slugs, slug)
	if r.collisions > 0 {
		r.collisions--
		return true
	}
	return false
}

func (r *stubNoteRepo) Create(_ context.Context, n *domain.Note) (*domain.Note, error) {
	if r.collide(n.Slug) {
		return nil, domain.ErrDuplicateField
	}
	r.seq++
	stored := cloneNote(n)
	stored.ID = fmt.Sprintf("note-%d", r.seq)
	r.notes[stored.ID] = stored
	return cloneNote(stored), nil
}

func (r *stubNoteRepo) FindByID(_ context.Context, id string) (*domain.Note, error) {
	n, ok := r.notes[id]
	if !ok || n.IsDeleted() {
		return nil, domain.ErrNoteNotFound
	}
	return cloneNote(n), nil
}

func (r *stubNoteRepo) FindBySlug(_ context.Context, slug string) (*domain.Note, error) {
	for _, n := range r.notes {
		if n.Slug == slug && !n.IsDeleted() {
			return cloneNote(n), nil
		}
	}
	return nil, domain.ErrNoteNotFound
}

func (r *stubNoteRepo) Update(_ context.Context, n *domain.Note) (*domain.Note, error) {
	if _, ok := r.notes[n.ID]; !ok {
		return nil, domain.ErrNoteNotFound
	}
	if r.collide(n.Slug) {
		return nil, domain.ErrDuplicateField
	}
	r.notes[n.ID] = cloneNote(n)
	return cloneNote(n), nil
}

func (r *stubNoteRepo) SoftDelete(_ context.Context, id string, at time.Time) error {
	n, ok := r.notes[id]
	if !ok || n.IsDeleted() {
		return domain.ErrNoteNotFound
	}
	n.DeletedAt = &at
	return nil
}

func (r *stubNoteRepo) matches(n *domain.Note, f ports.NoteFilter) bool {
	if !f.IncludeDeleted && n.IsDeleted() {
		return false
	}
	if f.AuthorID != "" && n.AuthorID != f.AuthorID {
		return false
	}
	return f.Visibility == "" || n.Visibility == f.Visibility
}

func (r *stubNoteRepo) List(_ context.Context, f ports.NoteFilter) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range r.notes {
		if r.matches(n, f) {
			out = append(out, cloneNote(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubNoteRepo) Search(_ context.Context, q string) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range r.notes {
		if n.Visibility == domain.VisibilityPublic && !n.IsDeleted() && strings.Contains(n.Title, q) {
			out = append(out, cloneNote(n))
		}
	}
	return out, nil
}

func (r *stubNoteRepo) AddLike(_ context.Context, id, userID string) error {
	n, ok := r.notes[id]
	if !ok || n.IsDeleted() {
		return domain.ErrNoteNotFound
	}
	for _, l := range n.LikedBy {
		if l == userID {
			return nil
		}
	}
	n.LikedBy = append(n.LikedBy, userID)
	return nil
}

func (r *stubNoteRepo) RemoveLike(_ context.Context, id, userID string) error {
	n, ok := r.notes[id]
	if !ok || n.IsDeleted() {
		return domain.ErrNoteNotFound
	}
	kept := n.LikedBy[:0]
	for _, l := range n.LikedBy {
		if l != userID {
			kept = append(kept, l)
		}
	}
	n.LikedBy = kept
	return nil
}

func (r *stubNoteRepo) Count(_ context.Context, f ports.NoteFilter) (int64, error) {
	var n int64
	for _, note := range r.notes {
		if r.matches(note, f) {
			n++
		}
	}
	return n, nil
}

// --- comments ---

type stubCommentRepo struct {
	notes    *stubNoteRepo
	comments map[string]*domain.Comment
	seq      int
	lastPage ports.Page
}

func newStubCommentRepo(notes *stubNoteRepo) *stubCommentRepo {
	return &stubCommentRepo{notes: notes, comments: make(map[string]*domain.Comment)}
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	n, ok := r.notes.notes[c.NoteID]
	if !ok || n.IsDeleted() {
		return nil, domain.ErrNoteNotFound
	}
	r.seq++
	stored := *c
	stored.ID = fmt.Sprintf("comment-%d", r.seq)
	r.comments[stored.ID] = &stored
	n.CommentsCount++
	out := stored
	return &out, nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok || c.IsDeleted() {
		return nil, domain.ErrCommentNotFound
	}
	out := *c
	return &out, nil
}

func (r *stubCommentRepo) ListByNote(_ context.Context, noteID string, page ports.Page) ([]*domain.Comment, error) {
	r.lastPage = page
	var out []*domain.Comment
	for _, c := range r.comments {
		if c.NoteID == noteID && !c.IsDeleted() {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (r *stubCommentRepo) UpdateBody(_ context.Context, id, body string, at time.Time) (*domain.Comment, error) {
	c, ok := r.comments[id]
	if !ok || c.IsDeleted() {
		return nil, domain.ErrCommentNotFound
	}
	c.Body = body
	c.EditedAt = &at
	out := *c
	return &out, nil
}

func (r *stubCommentRepo) SoftDelete(_ context.Context, c *domain.Comment, at time.Time) error {
	stored, ok := r.comments[c.ID]
	if !ok || stored.IsDeleted() {
		return domain.ErrCommentNotFound
	}
	stored.DeletedAt = &at
	if n, ok := r.notes.notes[c.NoteID]; ok && n.CommentsCount > 0 {
		n.CommentsCount--
	}
	return nil
}

func (r *stubCommentRepo) Count(context.Context) (int64, error) {
	var n int64
	for _, c := range r.comments {
		if !c.IsDeleted() {
			n++
		}
	}
	return n, nil
}

// --- security ---

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestIssuer(t *testing.T) (*security.TokenIssuer, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Now()}
	issuer, err := security.NewTokenIssuer(security.TokenConfig{
		AccessSecret:  "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}, security.WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	return issuer, clock
}

func newTestHasher() *security.BcryptHasher {
	return security.NewBcryptHasher(bcrypt.MinCost)
}
