package command

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/seqhub/preference-service/internal/favorite/domain"
)

// fakeFavoriteRepo is an in-memory FavoriteRepository for handler tests
type fakeFavoriteRepo struct {
	mu   sync.Mutex
	rows map[string]struct{}
	err  error
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{rows: make(map[string]struct{})}
}

func (f *fakeFavoriteRepo) key(userID uint, datatype string) string {
	return fmt.Sprintf("%d/%s", userID, datatype)
}

func (f *fakeFavoriteRepo) ListByUser(userID uint) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	prefix := fmt.Sprintf("%d/", userID)
	var datatypes []string
	for k := range f.rows {
		if strings.HasPrefix(k, prefix) {
			datatypes = append(datatypes, strings.TrimPrefix(k, prefix))
		}
	}
	return datatypes, nil
}

func (f *fakeFavoriteRepo) Insert(userID uint, datatype string) (*domain.FavoriteDatatype, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	k := f.key(userID, datatype)
	if _, exists := f.rows[k]; exists {
		return nil, domain.ErrDuplicateFavorite
	}
	f.rows[k] = struct{}{}
	return &domain.FavoriteDatatype{UserID: userID, Datatype: datatype}, nil
}

func (f *fakeFavoriteRepo) DeleteByUserAndDatatype(userID uint, datatype string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}

	k := f.key(userID, datatype)
	if _, exists := f.rows[k]; !exists {
		return 0, nil
	}
	delete(f.rows, k)
	return 1, nil
}

func (f *fakeFavoriteRepo) Count() (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.rows)), nil
}

func TestAddFavoriteCreatesRecord(t *testing.T) {
	repo := newFakeFavoriteRepo()
	handler := NewAddFavoriteHandler(repo)

	created, err := handler.Handle(AddFavoriteCommand{UserID: 1, Datatype: "fasta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatal("expected a new record to be created")
	}

	datatypes, _ := repo.ListByUser(1)
	if len(datatypes) != 1 || datatypes[0] != "fasta" {
		t.Fatalf("expected [fasta], got %v", datatypes)
	}
}

func TestAddFavoriteIsIdempotent(t *testing.T) {
	repo := newFakeFavoriteRepo()
	handler := NewAddFavoriteHandler(repo)

	if _, err := handler.Handle(AddFavoriteCommand{UserID: 1, Datatype: "fastq"}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	created, err := handler.Handle(AddFavoriteCommand{UserID: 1, Datatype: "fastq"})
	if err != nil {
		t.Fatalf("second add should succeed, got: %v", err)
	}
	if created {
		t.Fatal("second add should not report a new record")
	}

	count, _ := repo.Count()
	if count != 1 {
		t.Fatalf("expected exactly one record, got %d", count)
	}
}

func TestAddFavoriteTrimsWhitespace(t *testing.T) {
	repo := newFakeFavoriteRepo()
	handler := NewAddFavoriteHandler(repo)

	if _, err := handler.Handle(AddFavoriteCommand{UserID: 1, Datatype: "  fasta  "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	datatypes, _ := repo.ListByUser(1)
	if len(datatypes) != 1 || datatypes[0] != "fasta" {
		t.Fatalf("expected trimmed [fasta], got %v", datatypes)
	}
}

func TestAddFavoriteValidation(t *testing.T) {
	repo := newFakeFavoriteRepo()
	handler := NewAddFavoriteHandler(repo)

	tests := []struct {
		name    string
		cmd     AddFavoriteCommand
		wantInv bool
	}{
		{"empty datatype", AddFavoriteCommand{UserID: 1, Datatype: ""}, true},
		{"whitespace only", AddFavoriteCommand{UserID: 1, Datatype: "   "}, true},
		{"over max length", AddFavoriteCommand{UserID: 1, Datatype: strings.Repeat("x", domain.MaxDatatypeLen+1)}, true},
		{"missing user", AddFavoriteCommand{UserID: 0, Datatype: "fasta"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(tt.cmd)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantInv && !errors.Is(err, domain.ErrInvalidDatatype) {
				t.Fatalf("expected ErrInvalidDatatype, got %v", err)
			}
		})
	}

	count, _ := repo.Count()
	if count != 0 {
		t.Fatalf("no record should be created on validation failure, got %d", count)
	}
}

func TestAddFavoritePropagatesStorageError(t *testing.T) {
	repo := newFakeFavoriteRepo()
	repo.err = domain.ErrStorageUnavailable
	handler := NewAddFavoriteHandler(repo)

	_, err := handler.Handle(AddFavoriteCommand{UserID: 1, Datatype: "fasta"})
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}
