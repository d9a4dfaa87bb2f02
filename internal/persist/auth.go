package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/miseventos/miseventos-go/internal/model"
)

// AuthKey is the storage key of the persisted auth slice.
const AuthKey = "auth-storage"

// ErrCorruptAuth is returned by LoadAuth when the stored value cannot be decoded.
var ErrCorruptAuth = errors.New("corrupt auth snapshot")

// AuthSnapshot is the part of the auth state that survives restarts.
// Loading and error flags are never persisted.
type AuthSnapshot struct {
	Token           string             `json:"token"`
	User            *model.UserProfile `json:"user"`
	IsAuthenticated bool               `json:"isAuthenticated"`
}

// Stored as {"state": {...}, "version": 0}, the layout browser clients of
// the same backend use for this key.
type authEnvelope struct {
	State   AuthSnapshot `json:"state"`
	Version int          `json:"version"`
}

// SaveAuth writes snap under AuthKey.
func SaveAuth(ctx context.Context, s Storage, snap AuthSnapshot) error {
	b, err := json.Marshal(authEnvelope{State: snap})
	if err != nil {
		return fmt.Errorf("encode auth snapshot: %w", err)
	}
	return s.Set(ctx, AuthKey, b)
}

// LoadAuth reads the snapshot under AuthKey. ok is false when nothing was saved.
func LoadAuth(ctx context.Context, s Storage) (snap AuthSnapshot, ok bool, err error) {
	b, err := s.Get(ctx, AuthKey)
	if errors.Is(err, ErrNotFound) {
		return AuthSnapshot{}, false, nil
	}
	if err != nil {
		return AuthSnapshot{}, false, err
	}

	var env authEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return AuthSnapshot{}, false, fmt.Errorf("%w: %w", ErrCorruptAuth, err)
	}
	return env.State, true, nil
}

// ClearAuth removes the value under AuthKey.
func ClearAuth(ctx context.Context, s Storage) error {
	return s.Delete(ctx, AuthKey)
}
