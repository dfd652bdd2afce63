package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// Mock implementations for testing
type MockUserRepository struct {
	mu           sync.Mutex
	users        map[int64]*models.User
	usersByEmail map[string]*models.User
	nextID       int64

	// Err is returned by every method when set
	Err error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:        make(map[int64]*models.User),
		usersByEmail: make(map[string]*models.User),
		nextID:       1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.usersByEmail[user.Email]; ok {
		return utils.NewEmailInUseError()
	}

	user.ID = m.nextID
	m.nextID++

	m.users[user.ID] = user
	m.usersByEmail[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", email)
	}
	return user, nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.usersByEmail[email]
	return ok, nil
}

// remove simulates a user deleted out of band
func (m *MockUserRepository) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.users[id]; ok {
		delete(m.usersByEmail, user.Email)
		delete(m.users, id)
	}
}

type MockResetTokenRepository struct {
	mu     sync.Mutex
	tokens map[int64]*models.ResetToken
	nextID int64
	users  *MockUserRepository

	ReplaceErr error
	// ConsumeErr fails the password write; the token is kept, as after a rollback
	ConsumeErr error
}

func NewMockResetTokenRepository(users *MockUserRepository) *MockResetTokenRepository {
	return &MockResetTokenRepository{
		tokens: make(map[int64]*models.ResetToken),
		nextID: 1,
		users:  users,
	}
}

func (m *MockResetTokenRepository) Replace(ctx context.Context, token *models.ResetToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	for id, t := range m.tokens {
		if t.UserID == token.UserID {
			delete(m.tokens, id)
		}
	}
	token.ID = m.nextID
	m.nextID++
	stored := *token
	m.tokens[token.ID] = &stored
	return nil
}

func (m *MockResetTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.TokenHash == tokenHash {
			copied := *t
			return &copied, nil
		}
	}
	return nil, utils.NewNotFoundError("ResetToken", "hash")
}

func (m *MockResetTokenRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[id]; !ok {
		return false, nil
	}
	delete(m.tokens, id)
	return true, nil
}

func (m *MockResetTokenRepository) Consume(ctx context.Context, token *models.ResetToken, passwordHash, salt string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.ID]; !ok {
		return false, nil
	}
	if m.ConsumeErr != nil {
		return false, m.ConsumeErr
	}

	m.users.mu.Lock()
	defer m.users.mu.Unlock()
	user, ok := m.users.users[token.UserID]
	if !ok {
		return false, utils.NewNotFoundError("User", token.UserID)
	}
	user.PasswordHash = passwordHash
	user.Salt = salt
	delete(m.tokens, token.ID)
	return true, nil
}

func (m *MockResetTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, t := range m.tokens {
		if t.ExpiresAt.Before(before) {
			delete(m.tokens, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MockResetTokenRepository) countForUser(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

// MockMailer records reset emails instead of sending them
type MockMailer struct {
	mu     sync.Mutex
	Sent   []string
	SentTo []string
	Err    error
}

func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, user *models.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, token)
	m.SentTo = append(m.SentTo, user.Email)
	return nil
}

func (m *MockMailer) last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1]
}

var errStoreDown = errors.New("connection refused")
