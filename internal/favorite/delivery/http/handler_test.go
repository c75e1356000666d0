package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/seqhub/preference-service/internal/favorite/domain"
	"github.com/seqhub/preference-service/pkg/auth"
	"github.com/seqhub/preference-service/pkg/logger"
)

// fakeRepo is an in-memory FavoriteRepository shared across handler tests
type fakeRepo struct {
	mu   sync.Mutex
	rows map[uint]map[string]struct{}
	err  error
}

func (f *fakeRepo) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = make(map[uint]map[string]struct{})
	f.err = nil
}

func (f *fakeRepo) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeRepo) ListByUser(userID uint) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var datatypes []string
	for dt := range f.rows[userID] {
		datatypes = append(datatypes, dt)
	}
	return datatypes, nil
}

func (f *fakeRepo) Insert(userID uint, datatype string) (*domain.FavoriteDatatype, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	if f.rows[userID] == nil {
		f.rows[userID] = make(map[string]struct{})
	}
	if _, exists := f.rows[userID][datatype]; exists {
		return nil, domain.ErrDuplicateFavorite
	}
	f.rows[userID][datatype] = struct{}{}
	return &domain.FavoriteDatatype{UserID: userID, Datatype: datatype}, nil
}

func (f *fakeRepo) DeleteByUserAndDatatype(userID uint, datatype string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}

	if _, exists := f.rows[userID][datatype]; !exists {
		return 0, nil
	}
	delete(f.rows[userID], datatype)
	return 1, nil
}

func (f *fakeRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}

	var count int64
	for _, datatypes := range f.rows {
		count += int64(len(datatypes))
	}
	return count, nil
}

// The handler registers Prometheus collectors in its constructor, so it is
// built once and shared; each test resets the repository instead.
var (
	testRepo   = &fakeRepo{rows: make(map[uint]map[string]struct{})}
	testRouter *mux.Router
	setupOnce  sync.Once
)

func setupRouter(t *testing.T) *mux.Router {
	t.Helper()
	setupOnce.Do(func() {
		logger.Init("preference-service-test", "error", false)
		handler := NewFavoriteHandler(testRepo, nil)
		testRouter = mux.NewRouter()
		handler.RegisterRoutes(testRouter)
	})
	testRepo.reset()
	return testRouter
}

func doRequest(router *mux.Router, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func mintToken(t *testing.T, userID uint) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, fmt.Sprintf("user%d", userID), "user")
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return token
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var datatypes []string
	if err := json.Unmarshal(rec.Body.Bytes(), &datatypes); err != nil {
		t.Fatalf("failed to decode list response %q: %v", rec.Body.String(), err)
	}
	return datatypes
}

func TestRoutesRequireAuthentication(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/users/current/favorite_datatypes"},
		{"POST", "/users/current/favorite_datatypes/fasta"},
		{"DELETE", "/users/current/favorite_datatypes/fasta"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" no header", func(t *testing.T) {
			rec := doRequest(router, tt.method, tt.path, "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
		t.Run(tt.method+" garbage token", func(t *testing.T) {
			rec := doRequest(router, tt.method, tt.path, "not-a-jwt")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest("GET", "/users/current/favorite_datatypes", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-Bearer scheme, got %d", rec.Code)
	}
}

func TestFavoriteLifecycle(t *testing.T) {
	router := setupRouter(t)
	token := mintToken(t, 7)

	// Fresh user has no favorites
	rec := doRequest(router, "GET", "/users/current/favorite_datatypes", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeList(t, rec); len(got) != 0 {
		t.Fatalf("expected empty list, got %v", got)
	}

	// Mark fasta
	rec = doRequest(router, "POST", "/users/current/favorite_datatypes/fasta", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var marked string
	if err := json.Unmarshal(rec.Body.Bytes(), &marked); err != nil || marked != "fasta" {
		t.Fatalf("expected body \"fasta\", got %q (err=%v)", rec.Body.String(), err)
	}

	// Marking again succeeds without a second record
	rec = doRequest(router, "POST", "/users/current/favorite_datatypes/fasta", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-mark should succeed, got %d", rec.Code)
	}

	rec = doRequest(router, "POST", "/users/current/favorite_datatypes/fastq", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(router, "GET", "/users/current/favorite_datatypes", token)
	got := decodeList(t, rec)
	sort.Strings(got)
	if want := []string{"fasta", "fastq"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// Unmark fasta
	rec = doRequest(router, "DELETE", "/users/current/favorite_datatypes/fasta", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	rec = doRequest(router, "GET", "/users/current/favorite_datatypes", token)
	if got := decodeList(t, rec); len(got) != 1 || got[0] != "fastq" {
		t.Fatalf("expected [fastq], got %v", got)
	}

	// Unmarking an absent favorite is still 204
	rec = doRequest(router, "DELETE", "/users/current/favorite_datatypes/bam", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for absent favorite, got %d", rec.Code)
	}
}

func TestMarkFavoriteRejectsBlankDatatype(t *testing.T) {
	router := setupRouter(t)
	token := mintToken(t, 3)

	rec := doRequest(router, "POST", "/users/current/favorite_datatypes/%20%20", token)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank datatype, got %d", rec.Code)
	}

	rec = doRequest(router, "DELETE", "/users/current/favorite_datatypes/%20", token)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank datatype, got %d", rec.Code)
	}
}

func TestMarkFavoriteRejectsOverlongDatatype(t *testing.T) {
	router := setupRouter(t)
	token := mintToken(t, 3)

	long := strings.Repeat("x", domain.MaxDatatypeLen+1)
	rec := doRequest(router, "POST", "/users/current/favorite_datatypes/"+long, token)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for over-long datatype, got %d", rec.Code)
	}
}

func TestFavoritesAreScopedToUser(t *testing.T) {
	router := setupRouter(t)
	alice := mintToken(t, 1)
	bob := mintToken(t, 2)

	rec := doRequest(router, "POST", "/users/current/favorite_datatypes/fasta", alice)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doRequest(router, "GET", "/users/current/favorite_datatypes", bob)
	if got := decodeList(t, rec); len(got) != 0 {
		t.Fatalf("another user's favorites leaked: %v", got)
	}
}

func TestStorageFailureReturns500(t *testing.T) {
	router := setupRouter(t)
	token := mintToken(t, 5)
	testRepo.fail(domain.ErrStorageUnavailable)

	rec := doRequest(router, "GET", "/users/current/favorite_datatypes", token)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on list, got %d", rec.Code)
	}

	rec = doRequest(router, "POST", "/users/current/favorite_datatypes/fasta", token)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on mark, got %d", rec.Code)
	}

	rec = doRequest(router, "DELETE", "/users/current/favorite_datatypes/fasta", token)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on unmark, got %d", rec.Code)
	}
}
