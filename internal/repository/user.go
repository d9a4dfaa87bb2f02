package repository

import (
	"context"
	"strings"
)

// UserRepository handles user persistence operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
// Emails are unique regardless of case.
func (r *UserRepository) Create(_ context.Context, user *User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.emailTaken(user.Email, 0) {
		return ErrDuplicateEmail
	}

	r.db.nextUserID++
	user.ID = r.db.nextUserID
	stored := *user
	r.db.users[user.ID] = &stored
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, u := range r.db.users {
		if strings.EqualFold(u.Email, email) {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(_ context.Context, id int64) (*User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	found := *u
	return &found, nil
}

// Update changes the name and/or email of a user. Nil fields are left as is.
func (r *UserRepository) Update(_ context.Context, id int64, name, email *string) (*User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if email != nil && r.emailTaken(*email, id) {
		return nil, ErrDuplicateEmail
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	updated := *u
	return &updated, nil
}

// emailTaken reports whether another user than except owns email. Callers hold mu.
func (r *UserRepository) emailTaken(email string, except int64) bool {
	for _, u := range r.db.users {
		if u.ID != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
