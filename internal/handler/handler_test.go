package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karanj/evently/internal/auth"
	"github.com/karanj/evently/internal/model"
	"github.com/karanj/evently/internal/service"
)

// ─── In-memory fakes for the store interfaces ─────────────────────────────────

type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, name, email, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return nil, model.ErrEmailTaken
	}
	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byEmail[email] = user
	return user, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byEmail[email]
	if !ok {
		return nil, model.ErrNotFound
	}
	return user, nil
}

type fakeEventStore struct {
	mu     sync.Mutex
	events map[string]*model.Event
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[string]*model.Event)}
}

func (s *fakeEventStore) Create(_ context.Context, ownerID string, req model.CreateEventRequest) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	event := &model.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date.UTC(),
		Location:    req.Location,
		Capacity:    req.Capacity,
		Price:       req.Price,
		CreatedBy:   ownerID,
		Priority:    model.PriorityLow,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.events[event.ID] = event
	return event, nil
}

func (s *fakeEventStore) ListByOwner(_ context.Context, ownerID string) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []model.Event
	for _, e := range s.events {
		if e.CreatedBy == ownerID {
			events = append(events, *e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })
	return events, nil
}

func (s *fakeEventStore) UpdatePriority(_ context.Context, ownerID, eventID string, priority model.Priority) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok || e.CreatedBy != ownerID {
		return nil, model.ErrNotFound
	}
	e.Priority = priority
	e.UpdatedAt = time.Now().UTC()
	copied := *e
	return &copied, nil
}

func (s *fakeEventStore) MarkComplete(_ context.Context, ownerID, eventID string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok || e.CreatedBy != ownerID {
		return nil, model.ErrNotFound
	}
	e.IsCompleted = true
	e.UpdatedAt = time.Now().UTC()
	copied := *e
	return &copied, nil
}

func (s *fakeEventStore) Delete(_ context.Context, ownerID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[eventID]
	if !ok || e.CreatedBy != ownerID {
		return model.ErrNotFound
	}
	delete(s.events, eventID)
	return nil
}

// ─── Test harness ─────────────────────────────────────────────────────────────

type testEnv struct {
	router *chi.Mux
	users  *fakeUserStore
	events *fakeEventStore
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUserStore()
	events := newFakeEventStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	logger := zerolog.Nop()

	authHandler := NewAuthHandler(service.NewAuthService(users, tokens, logger))
	eventHandler := NewEventHandler(service.NewEventService(events, logger))
	router := NewRouter(authHandler, eventHandler, tokens, logger)

	return &testEnv{router: router, users: users, events: events, tokens: tokens}
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) signupAndLogin(t *testing.T, name, email, password string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/signup", "", map[string]string{
		"name": name, "email": email, "password": password, "confirmPassword": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (env *testEnv) createEvent(t *testing.T, token, title, date string) model.Event {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/events", token, map[string]any{
		"title": title, "date": date,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Event)
	return *resp.Event
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestSignupLoginCreateFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")

	claims, err := env.tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "Ann", claims.Name)

	event := env.createEvent(t, token, "Launch", "2025-01-01T00:00:00Z")
	assert.Equal(t, claims.Subject, event.CreatedBy)
	assert.Equal(t, model.PriorityLow, event.Priority)
	assert.False(t, event.IsCompleted)
	assert.Zero(t, event.BookedSeats)
}

func TestSignup_MismatchedConfirm(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/signup", "", map[string]string{
		"name": "Ann", "email": "a@x.com", "password": "Abcdef1!", "confirmPassword": "Other1!a",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.users.byEmail)
}

func TestSignup_WeakPassword(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/signup", "", map[string]string{
		"name": "Ann", "email": "a@x.com", "password": "weakweak", "confirmPassword": "weakweak",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.users.byEmail)
}

func TestSignup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]string{
		"name": "Ann", "email": "a@x.com", "password": "Abcdef1!", "confirmPassword": "Abcdef1!",
	}

	rec := env.do(t, http.MethodPost, "/signup", "", body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/signup", "", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, env.users.byEmail, 1)
}

func TestLogin_UnknownEmailAndWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")

	rec := env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "nobody@x.com", "password": "Abcdef1!",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", "", map[string]string{
		"email": "a@x.com", "password": "Wrong1!aa",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The two failures are indistinguishable to the caller.
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}

func TestEvents_RequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/events"},
		{http.MethodGet, "/events"},
		{http.MethodPut, "/events/abc/priority"},
		{http.MethodPut, "/events/abc/complete"},
		{http.MethodDelete, "/events/abc"},
	} {
		rec := env.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestEvents_RejectBadTokens(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/events", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	foreign, err := auth.NewTokenManager("other-secret", time.Hour).Generate("u1", "Mallory")
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/events", foreign, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired, err := auth.NewTokenManager("test-secret", -time.Minute).Generate("u1", "Ann")
	require.NoError(t, err)
	rec = env.do(t, http.MethodGet, "/events", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEvents_CreateRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")

	rec := env.do(t, http.MethodPost, "/events", token, map[string]any{
		"title": "Launch", "date": "2025-01-01T00:00:00Z", "organizer": "someone",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvents_CreateMissingTitle(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")

	rec := env.do(t, http.MethodPost, "/events", token, map[string]any{
		"date": "2025-01-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvents_ListOrderedByDate(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")

	env.createEvent(t, token, "Later", "2025-06-01T00:00:00Z")
	env.createEvent(t, token, "Sooner", "2025-01-01T00:00:00Z")

	rec := env.do(t, http.MethodGet, "/events", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "Sooner", events[0].Title)
	assert.Equal(t, "Later", events[1].Title)
}

func TestEvents_ListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")

	rec := env.do(t, http.MethodGet, "/events", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(rec.Body.Bytes())))
}

func TestEvents_OwnershipIsolation(t *testing.T) {
	env := newTestEnv(t)
	tokenA := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")
	tokenB := env.signupAndLogin(t, "Bob", "b@x.com", "Abcdef1!")

	event := env.createEvent(t, tokenA, "Private", "2025-01-01T00:00:00Z")

	rec := env.do(t, http.MethodGet, "/events", tokenB, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Empty(t, events)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/events/%s/priority", event.ID), tokenB,
		map[string]string{"priority": "high"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/events/%s/complete", event.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/events/"+event.ID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The owner still sees the untouched event.
	rec = env.do(t, http.MethodGet, "/events", tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, model.PriorityLow, events[0].Priority)
	assert.False(t, events[0].IsCompleted)
}

func TestEvents_UpdatePriority(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")
	event := env.createEvent(t, token, "Launch", "2025-01-01T00:00:00Z")

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/events/%s/priority", event.ID), token,
		map[string]string{"priority": "high"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.PriorityHigh, resp.Event.Priority)
}

func TestEvents_UpdatePriorityInvalidEnum(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")
	event := env.createEvent(t, token, "Launch", "2025-01-01T00:00:00Z")

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/events/%s/priority", event.ID), token,
		map[string]string{"priority": "urgent"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The event is unchanged.
	rec = env.do(t, http.MethodGet, "/events", token, nil)
	var events []model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, model.PriorityLow, events[0].Priority)
}

func TestEvents_MarkComplete(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")
	event := env.createEvent(t, token, "Launch", "2025-01-01T00:00:00Z")

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/events/%s/complete", event.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.EventResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Event.IsCompleted)

	rec = env.do(t, http.MethodPut, "/events/"+uuid.New().String()+"/complete", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvents_Delete(t *testing.T) {
	env := newTestEnv(t)
	token := env.signupAndLogin(t, "Ann", "a@x.com", "Abcdef1!")
	event := env.createEvent(t, token, "Launch", "2025-01-01T00:00:00Z")

	rec := env.do(t, http.MethodDelete, "/events/"+event.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "deleted")

	rec = env.do(t, http.MethodDelete, "/events/"+event.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/events", token, nil)
	var events []model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	assert.Empty(t, events)
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
