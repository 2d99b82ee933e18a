package auth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/gopayurself/internal/apperr"
	"github.com/mmynk/gopayurself/internal/models"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[strings.ToLower(user.Email)] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("user", email)
	}
	return user, nil
}

func newTestAuthenticator() *PasswordAuthenticator {
	a := NewPasswordAuthenticator(&memoryUsers{users: make(map[string]*models.User)})
	a.cost = bcrypt.MinCost
	return a
}

func TestRegister(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	user, err := a.Register(ctx, "alice@example.com", "Alice", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	_, err = a.Register(ctx, "ALICE@example.com", "Alice again", "correct-horse")
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = a.Register(ctx, "bob@example.com", "Bob", "short")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = a.Register(ctx, "not-an-email", "Bob", "long-enough")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	carol, err := a.Register(ctx, "carol@example.com", "", "long-enough")
	require.NoError(t, err)
	assert.Equal(t, "carol", carol.DisplayName)
}

func TestAuthenticate(t *testing.T) {
	a := newTestAuthenticator()
	ctx := context.Background()

	registered, err := a.Register(ctx, "alice@example.com", "Alice", "correct-horse")
	require.NoError(t, err)

	user, err := a.Authenticate(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = a.Authenticate(ctx, "alice@example.com", "wrong-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
