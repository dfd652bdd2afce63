package repository

import (
	"context"
	"sync"
	"time"

	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/utils"
)

// MemoryStore keeps users and reset tokens in process memory.
// It backs the "memory" database driver used for local runs and tests.
type MemoryStore struct {
	mu          sync.Mutex
	users       map[int64]*models.User
	emails      map[string]int64
	tokens      map[int64]*models.ResetToken
	tokenHashes map[string]int64
	userTokens  map[int64]int64
	nextUserID  int64
	nextTokenID int64
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[int64]*models.User),
		emails:      make(map[string]int64),
		tokens:      make(map[int64]*models.ResetToken),
		tokenHashes: make(map[string]int64),
		userTokens:  make(map[int64]int64),
	}
}

// Users returns a UserRepository backed by the store
func (s *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{store: s}
}

// ResetTokens returns a ResetTokenRepository backed by the store
func (s *MemoryStore) ResetTokens() ResetTokenRepository {
	return &memoryResetTokenRepository{store: s}
}

type memoryUserRepository struct {
	store *MemoryStore
}

func (r *memoryUserRepository) Create(ctx context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emails[user.Email]; exists {
		return utils.NewEmailInUseError()
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	s.nextUserID++
	user.ID = s.nextUserID

	stored := *user
	s.users[user.ID] = &stored
	s.emails[user.Email] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", "email")
	}
	copied := *s.users[id]
	return &copied, nil
}

func (r *memoryUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.emails[email]
	return ok, nil
}

type memoryResetTokenRepository struct {
	store *MemoryStore
}

func (r *memoryResetTokenRepository) Replace(ctx context.Context, token *models.ResetToken) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[token.UserID]; !ok {
		return utils.NewNotFoundError("User", token.UserID)
	}
	if _, taken := s.tokenHashes[token.TokenHash]; taken {
		return utils.NewDuplicateError("ResetToken", "token_hash", "[REDACTED]")
	}

	if oldID, ok := s.userTokens[token.UserID]; ok {
		s.removeTokenLocked(oldID)
	}

	s.nextTokenID++
	token.ID = s.nextTokenID

	stored := *token
	s.tokens[token.ID] = &stored
	s.tokenHashes[token.TokenHash] = token.ID
	s.userTokens[token.UserID] = token.ID
	return nil
}

func (r *memoryResetTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.ResetToken, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokenHashes[tokenHash]
	if !ok {
		return nil, utils.NewNotFoundError("ResetToken", "hash")
	}
	copied := *s.tokens[id]
	return &copied, nil
}

func (r *memoryResetTokenRepository) Delete(ctx context.Context, id int64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.removeTokenLocked(id), nil
}

func (r *memoryResetTokenRepository) Consume(ctx context.Context, token *models.ResetToken, passwordHash, salt string) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tokens[token.ID]
	if !ok {
		return false, nil
	}
	user, ok := s.users[stored.UserID]
	if !ok {
		return false, utils.NewNotFoundError("User", stored.UserID)
	}

	s.removeTokenLocked(token.ID)
	user.PasswordHash = passwordHash
	user.Salt = salt
	user.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *memoryResetTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, token := range s.tokens {
		if token.ExpiresAt.Before(before) {
			s.removeTokenLocked(id)
			removed++
		}
	}
	return removed, nil
}

// removeTokenLocked deletes a token and its indexes. s.mu must be held.
func (s *MemoryStore) removeTokenLocked(id int64) bool {
	token, ok := s.tokens[id]
	if !ok {
		return false
	}
	delete(s.tokens, id)
	delete(s.tokenHashes, token.TokenHash)
	if s.userTokens[token.UserID] == id {
		delete(s.userTokens, token.UserID)
	}
	return true
}
