package natsrpc

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/authvault/authvault/internal/common"
	"github.com/authvault/authvault/internal/logging"
	"github.com/authvault/authvault/internal/server/hashing"
	"github.com/authvault/authvault/internal/server/models"
	"github.com/authvault/authvault/internal/server/services"
	"github.com/authvault/authvault/internal/server/token"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type memRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
}

func (m *memRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	u.ID = uuid.NewString()
	cp := *u
	m.byEmail[u.Email] = &cp
	return u, nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	auth := services.NewAuthService(
		&memRepo{byEmail: make(map[string]*models.User)},
		hashing.NewHasher(bcrypt.MinCost),
		token.NewCodec("test-secret", time.Hour),
		logger,
	)
	return NewServer([]string{"nats://localhost:4222"}, auth, logger)
}

func decodeAuth(t *testing.T, b []byte) authResponse {
	t.Helper()
	var res authResponse
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("decoding auth response %s: %v", b, err)
	}
	return res
}

func decodeError(t *testing.T, b []byte) errorResponse {
	t.Helper()
	var res errorResponse
	if err := json.Unmarshal(b, &res); err != nil {
		t.Fatalf("decoding error response %s: %v", b, err)
	}
	return res
}

func TestRegisterHandler(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	req := []byte(`{"name":"Ann","email":"ann@x.com","password":"secret1"}`)
	res := decodeAuth(t, s.register(ctx, req))
	if res.User.Email != "ann@x.com" || res.User.ID == "" || res.Token == "" {
		t.Fatalf("unexpected response: %+v", res)
	}

	// Same email again → conflict envelope.
	errRes := decodeError(t, s.register(ctx, req))
	if errRes.Status != 409 || errRes.Message != "user already exists" {
		t.Fatalf("unexpected conflict envelope: %+v", errRes)
	}
}

func TestRegisterHandler_MalformedPayload(t *testing.T) {
	s := newTestServer(t)

	errRes := decodeError(t, s.register(context.Background(), []byte("{not json")))
	if errRes.Status != 400 {
		t.Fatalf("unexpected envelope: %+v", errRes)
	}
}

func TestLoginHandler(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	s.register(ctx, []byte(`{"name":"Ann","email":"ann@x.com","password":"secret1"}`))

	tests := []struct {
		name       string
		payload    string
		wantStatus int
		wantMsg    string
	}{
		{"unknown email", `{"email":"ghost@x.com","password":"x"}`, 400, "user does not exist"},
		{"wrong password", `{"email":"ann@x.com","password":"wrong"}`, 400, "invalid credentials"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errRes := decodeError(t, s.login(ctx, []byte(tc.payload)))
			if errRes.Status != tc.wantStatus || errRes.Message != tc.wantMsg {
				t.Fatalf("got %+v, want %d %q", errRes, tc.wantStatus, tc.wantMsg)
			}
		})
	}

	res := decodeAuth(t, s.login(ctx, []byte(`{"email":"ann@x.com","password":"secret1"}`)))
	if res.User.Email != "ann@x.com" || res.Token == "" {
		t.Fatalf("unexpected login response: %+v", res)
	}
}

func TestVerifyHandler(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	reg := decodeAuth(t, s.register(ctx, []byte(`{"name":"Ann","email":"ann@x.com","password":"secret1"}`)))

	payload, err := json.Marshal(reg.Token)
	if err != nil {
		t.Fatalf("marshal token: %v", err)
	}
	res := decodeAuth(t, s.verify(ctx, payload))
	if res.User.Email != "ann@x.com" {
		t.Fatalf("unexpected claims: %+v", res.User)
	}
	if res.Token == reg.Token {
		t.Fatalf("verify must return a fresh token")
	}

	for name, bad := range map[string][]byte{
		"garbage token":  []byte(`"not.a.jwt"`),
		"not a string":   []byte(`123`),
		"malformed json": []byte(`{`),
	} {
		errRes := decodeError(t, s.verify(ctx, bad))
		if errRes.Status != 401 || errRes.Message != "unauthorized" {
			t.Fatalf("%s: unexpected envelope: %+v", name, errRes)
		}
	}
}

func TestMarshalClassified_InternalHidesDetail(t *testing.T) {
	errRes := decodeError(t, marshalClassified(common.ErrInternal))
	if errRes.Status != 500 || errRes.Message != "internal server error" {
		t.Fatalf("unexpected envelope: %+v", errRes)
	}
}
