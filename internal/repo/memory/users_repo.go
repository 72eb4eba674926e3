package memory

import (
	"context"
	"sync"
	"time"

	"github.com/T1-hotae/cursor-memo-db/internal/domain/user"
)

// UsersRepo is an in-memory credential store with the same contract as
// the postgres one. Used by handler tests and DB-less dev runs.
type UsersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
	nextID  int64
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]user.User),
		nextID:  1,
	}
}

func (r *UsersRepo) Create(ctx context.Context, email, passwordHash, name string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return user.User{}, user.ErrEmailAlreadyUsed
	}

	u := user.User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}

	r.nextID++
	r.byEmail[email] = u

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

// Delete removes an account. Only tests use this, to simulate a token
// that outlives its user.
func (r *UsersRepo) Delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for email, u := range r.byEmail {
		if u.ID == id {
			delete(r.byEmail, email)
			return
		}
	}
}
