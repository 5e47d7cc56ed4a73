package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FortunateSmith/LightBnB/internal/domain"
	"github.com/FortunateSmith/LightBnB/internal/service"
	apperrors "github.com/FortunateSmith/LightBnB/pkg/errors"
	"github.com/FortunateSmith/LightBnB/pkg/health"
	"github.com/FortunateSmith/LightBnB/pkg/httputil"
)

// --- Mock UserRepository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Test Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testRepos struct {
	users        *mockUserRepository
	properties   *mockPropertyRepository
	reservations *mockReservationRepository
}

func newTestRouter() (http.Handler, *testRepos) {
	repos := &testRepos{
		users:        new(mockUserRepository),
		properties:   new(mockPropertyRepository),
		reservations: new(mockReservationRepository),
	}
	logger := testLogger()
	router := NewRouter(
		service.NewUserService(repos.users, logger),
		service.NewPropertyService(repos.properties, logger),
		service.NewReservationService(repos.reservations, logger),
		health.NewHandler(),
		logger,
	)
	return router, repos
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// --- Register ---

func TestRegister_Created(t *testing.T) {
	router, repos := newTestRouter()

	repos.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.User).ID = 7
		}).
		Return(nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users", RegisterRequest{
		Name:     "Alice Rivera",
		Email:    "alice@example.com",
		Password: "secret-pass",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Data)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, "Alice Rivera", data["name"])

	// The password hash must never appear in responses.
	_, hasPassword := data["password"]
	assert.False(t, hasPassword)

	repos.users.AssertExpectations(t)
}

func TestRegister_ValidationFailure(t *testing.T) {
	router, repos := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users", RegisterRequest{
		Name:     "Alice",
		Email:    "not-an-email",
		Password: "secret-pass",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repos.users.AssertNotCalled(t, "Create")
}

func TestRegister_MalformedBody(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router, repos := newTestRouter()

	repos.users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "alice@example.com"))

	rec := doJSON(t, router, http.MethodPost, "/api/v1/users", RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret-pass",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "ALREADY_EXISTS", resp.Error.Code)
}

// --- Login ---

func TestLogin_OK(t *testing.T) {
	router, repos := newTestRouter()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 7, Name: "Alice", Email: "alice@example.com", Password: string(hash)}
	repos.users.On("GetByEmail", mock.Anything, "alice@example.com").Return(stored, nil)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "secret-pass",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	repos.users.AssertExpectations(t)
}

func TestLogin_BadCredentials(t *testing.T) {
	router, repos := newTestRouter()

	repos.users.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, apperrors.ErrNotFound)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/login", LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

// --- GetUser ---

func TestGetUser_OK(t *testing.T) {
	router, repos := newTestRouter()

	stored := &domain.User{ID: 7, Name: "Alice", Email: "alice@example.com"}
	repos.users.On("GetByID", mock.Anything, int64(7)).Return(stored, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repos.users.AssertExpectations(t)
}

func TestGetUser_NotFound(t *testing.T) {
	router, repos := newTestRouter()

	repos.users.On("GetByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUser_InvalidID(t *testing.T) {
	router, repos := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repos.users.AssertNotCalled(t, "GetByID")
}

// --- Health ---

func TestHealthLive(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
