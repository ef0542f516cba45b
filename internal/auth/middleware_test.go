package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	identity *Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeRecorder struct {
	recorded []Identity
	err      error
}

func (f *fakeRecorder) Record(identity Identity) error {
	f.recorded = append(f.recorded, identity)
	return f.err
}

func newProtectedHandler(verifier Verifier, users UserRecorder) (http.Handler, *string) {
	var gotOwner string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID, _ := OwnerID(r.Context())
		gotOwner = ownerID
		w.WriteHeader(http.StatusOK)
	})
	return Middleware(verifier, users, zerolog.Nop())(handler), &gotOwner
}

func TestMiddleware_MissingHeader(t *testing.T) {
	handler, _ := newProtectedHandler(&fakeVerifier{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_NonBearerHeader(t *testing.T) {
	handler, _ := newProtectedHandler(&fakeVerifier{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_InvalidToken(t *testing.T) {
	verifier := &fakeVerifier{err: fmt.Errorf("%w: expired", ErrUnauthorized)}
	handler, _ := newProtectedHandler(verifier, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_IdentityServiceDown(t *testing.T) {
	verifier := &fakeVerifier{err: fmt.Errorf("connection refused")}
	handler, _ := newProtectedHandler(verifier, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestMiddleware_ResolvedOwnerInContext(t *testing.T) {
	verifier := &fakeVerifier{identity: &Identity{UID: "owner-42", Email: "o@example.com"}}
	recorder := &fakeRecorder{}
	handler, gotOwner := newProtectedHandler(verifier, recorder)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner-42", *gotOwner)
	require.Len(t, recorder.recorded, 1)
	assert.Equal(t, "owner-42", recorder.recorded[0].UID)
}

func TestMiddleware_RecorderFailureDoesNotBlock(t *testing.T) {
	verifier := &fakeVerifier{identity: &Identity{UID: "owner-42"}}
	recorder := &fakeRecorder{err: fmt.Errorf("db locked")}
	handler, _ := newProtectedHandler(verifier, recorder)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClient_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"uid":"owner-1","email":"o@example.com"}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, zerolog.Nop())

	identity, err := client.Verify(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", identity.UID)

	_, err = client.Verify(context.Background(), "bad-token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
