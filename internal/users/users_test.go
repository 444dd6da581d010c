package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"clarify-api/internal/shared"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const sessionQueryPattern = `SELECT\s+user.id,\s+user.email,\s+user.credits\s+FROM user\s+INNER JOIN session`

func newTestManager(t *testing.T) (*Manager, *miniredis.Miniredis, sqlmock.Sqlmock) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed starting miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed creating sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	return NewManager(redisClient, db, zap.NewNop().Sugar()), mr, mock
}

func TestGetFromTokenCacheHit(t *testing.T) {
	m, mr, _ := newTestManager(t)
	token := strings.Repeat("a", shared.SessionTokenLength)

	cached, _ := json.Marshal(shared.UserMetadata{UserID: 42, Email: "u@example.com", Credits: 9})
	mr.Set(cacheKey(token), string(cached))

	user, err := m.GetFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.UserID != 42 || user.Credits != 9 {
		t.Errorf("unexpected metadata: %+v", user)
	}
	if user.SessionToken != token {
		t.Errorf("expected session token carried on metadata")
	}
}

func TestGetFromTokenCacheMiss(t *testing.T) {
	m, _, mock := newTestManager(t)
	token := strings.Repeat("b", shared.SessionTokenLength)

	mock.ExpectQuery(sessionQueryPattern).
		WithArgs(token).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "credits"}).AddRow(7, "u@example.com", 3))

	user, err := m.GetFromToken(context.Background(), token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.UserID != 7 || user.Email != "u@example.com" || user.Credits != 3 {
		t.Errorf("unexpected metadata: %+v", user)
	}
}

func TestGetFromTokenUnknownSession(t *testing.T) {
	m, _, mock := newTestManager(t)
	token := strings.Repeat("c", shared.SessionTokenLength)

	mock.ExpectQuery(sessionQueryPattern).
		WithArgs(token).
		WillReturnError(sql.ErrNoRows)

	_, err := m.GetFromToken(context.Background(), token)
	if !errors.Is(err, shared.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	m, mr, _ := newTestManager(t)
	token := strings.Repeat("d", shared.SessionTokenLength)

	mr.Set(cacheKey(token), "{}")
	m.Invalidate(context.Background(), token)

	if mr.Exists(cacheKey(token)) {
		t.Error("expected cached metadata to be removed")
	}
}
