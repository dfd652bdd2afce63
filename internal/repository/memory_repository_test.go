package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matrizrfm/auth-api/internal/models"
	"github.com/matrizrfm/auth-api/internal/repository"
	"github.com/matrizrfm/auth-api/internal/utils"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	users := repository.NewMemoryStore().Users()

	user := &models.User{Name: "Maria", Email: "maria@example.com", PasswordHash: "h", Salt: "s"}
	require.NoError(t, users.Create(ctx, user))
	assert.Equal(t, int64(1), user.ID)

	dup := &models.User{Name: "Other", Email: "maria@example.com"}
	err := users.Create(ctx, dup)
	assert.True(t, utils.IsDuplicateError(err))

	exists, err := users.ExistsByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := users.GetByEmail(ctx, "maria@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = users.GetByID(ctx, 99)
	assert.True(t, utils.IsNotFoundError(err))
}

func TestMemoryResetTokenRepository_Consume(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := &models.User{Name: "Maria", Email: "maria@example.com", PasswordHash: "h", Salt: "s"}
	require.NoError(t, store.Users().Create(ctx, user))
	tokens := store.ResetTokens()

	token := models.NewResetToken(user.ID, "hash-1", time.Now(), 30*time.Minute)
	require.NoError(t, tokens.Replace(ctx, token))

	claimed, err := tokens.Consume(ctx, token, "h2", "s2")
	require.NoError(t, err)
	assert.True(t, claimed)

	found, err := store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", found.PasswordHash)
	assert.Equal(t, "s2", found.Salt)

	_, err = tokens.GetByTokenHash(ctx, "hash-1")
	assert.True(t, utils.IsNotFoundError(err))

	claimed, err = tokens.Consume(ctx, token, "h3", "s3")
	require.NoError(t, err)
	assert.False(t, claimed)

	found, err = store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", found.PasswordHash)
}

func TestMemoryResetTokenRepository_ReplaceKeepsOnePerUser(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := &models.User{Name: "Maria", Email: "maria@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))
	tokens := store.ResetTokens()

	now := time.Now()
	first := models.NewResetToken(user.ID, "hash-1", now, 30*time.Minute)
	second := models.NewResetToken(user.ID, "hash-2", now, 30*time.Minute)
	require.NoError(t, tokens.Replace(ctx, first))
	require.NoError(t, tokens.Replace(ctx, second))

	_, err := tokens.GetByTokenHash(ctx, "hash-1")
	assert.True(t, utils.IsNotFoundError(err), "previous token must be gone")

	got, err := tokens.GetByTokenHash(ctx, "hash-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	claimed, err := tokens.Delete(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = tokens.Delete(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestMemoryResetTokenRepository_ReplaceUnknownUser(t *testing.T) {
	tokens := repository.NewMemoryStore().ResetTokens()

	err := tokens.Replace(context.Background(), models.NewResetToken(1, "hash", time.Now(), time.Minute))
	assert.True(t, utils.IsNotFoundError(err))
}

func TestMemoryResetTokenRepository_ConcurrentReplace(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	user := &models.User{Name: "Maria", Email: "maria@example.com"}
	require.NoError(t, store.Users().Create(ctx, user))
	tokens := store.ResetTokens()

	hashes := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, h := range hashes {
		wg.Add(1)
		go func(h string) {
			defer wg.Done()
			assert.NoError(t, tokens.Replace(ctx, models.NewResetToken(user.ID, h, time.Now(), time.Minute)))
		}(h)
	}
	wg.Wait()

	live := 0
	for _, h := range hashes {
		if _, err := tokens.GetByTokenHash(ctx, h); err == nil {
			live++
		}
	}
	assert.Equal(t, 1, live)
}

func TestMemoryResetTokenRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	tokens := store.ResetTokens()

	now := time.Now()
	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		user := &models.User{Name: "U", Email: email}
		require.NoError(t, store.Users().Create(ctx, user))
		created := now.Add(-time.Duration(i) * time.Hour)
		require.NoError(t, tokens.Replace(ctx, models.NewResetToken(user.ID, email, created, 30*time.Minute)))
	}

	removed, err := tokens.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = tokens.GetByTokenHash(ctx, "a@example.com")
	assert.NoError(t, err)
}
