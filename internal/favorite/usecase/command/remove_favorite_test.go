package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/seqhub/preference-service/internal/favorite/domain"
)

func TestRemoveFavoriteDeletesRecord(t *testing.T) {
	repo := newFakeFavoriteRepo()
	add := NewAddFavoriteHandler(repo)
	remove := NewRemoveFavoriteHandler(repo)

	if _, err := add.Handle(AddFavoriteCommand{UserID: 1, Datatype: "fasta"}); err != nil {
		t.Fatalf("setup add failed: %v", err)
	}

	removed, err := remove.Handle(RemoveFavoriteCommand{UserID: 1, Datatype: "fasta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Fatal("expected a record to be removed")
	}

	datatypes, _ := repo.ListByUser(1)
	if len(datatypes) != 0 {
		t.Fatalf("expected no favorites left, got %v", datatypes)
	}
}

func TestRemoveFavoriteAbsentIsNoOp(t *testing.T) {
	repo := newFakeFavoriteRepo()
	remove := NewRemoveFavoriteHandler(repo)

	removed, err := remove.Handle(RemoveFavoriteCommand{UserID: 1, Datatype: "fasta"})
	if err != nil {
		t.Fatalf("unmarking an absent favorite should succeed, got: %v", err)
	}
	if removed {
		t.Fatal("nothing should have been removed")
	}
}

func TestRemoveFavoriteOnlyTargetsPair(t *testing.T) {
	repo := newFakeFavoriteRepo()
	add := NewAddFavoriteHandler(repo)
	remove := NewRemoveFavoriteHandler(repo)

	for _, dt := range []string{"fasta", "fastq"} {
		if _, err := add.Handle(AddFavoriteCommand{UserID: 1, Datatype: dt}); err != nil {
			t.Fatalf("setup add failed: %v", err)
		}
	}
	if _, err := add.Handle(AddFavoriteCommand{UserID: 2, Datatype: "fasta"}); err != nil {
		t.Fatalf("setup add failed: %v", err)
	}

	if _, err := remove.Handle(RemoveFavoriteCommand{UserID: 1, Datatype: "fasta"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	left, _ := repo.ListByUser(1)
	if len(left) != 1 || left[0] != "fastq" {
		t.Fatalf("expected user 1 to keep [fastq], got %v", left)
	}

	other, _ := repo.ListByUser(2)
	if len(other) != 1 || other[0] != "fasta" {
		t.Fatalf("user 2's favorite must be untouched, got %v", other)
	}
}

func TestRemoveFavoriteValidation(t *testing.T) {
	repo := newFakeFavoriteRepo()
	remove := NewRemoveFavoriteHandler(repo)

	if _, err := remove.Handle(RemoveFavoriteCommand{UserID: 0, Datatype: "fasta"}); err == nil {
		t.Fatal("expected an error for missing user id")
	}

	_, err := remove.Handle(RemoveFavoriteCommand{UserID: 1, Datatype: "   "})
	if !errors.Is(err, domain.ErrInvalidDatatype) {
		t.Fatalf("expected ErrInvalidDatatype, got %v", err)
	}

	_, err = remove.Handle(RemoveFavoriteCommand{UserID: 1, Datatype: strings.Repeat("x", domain.MaxDatatypeLen+1)})
	if !errors.Is(err, domain.ErrInvalidDatatype) {
		t.Fatalf("expected ErrInvalidDatatype for over-long datatype, got %v", err)
	}
}

func TestMarkUnmarkMarkRoundTrip(t *testing.T) {
	repo := newFakeFavoriteRepo()
	add := NewAddFavoriteHandler(repo)
	remove := NewRemoveFavoriteHandler(repo)

	created, err := add.Handle(AddFavoriteCommand{UserID: 1, Datatype: "vcf"})
	if err != nil || !created {
		t.Fatalf("first mark: created=%v err=%v", created, err)
	}

	removed, err := remove.Handle(RemoveFavoriteCommand{UserID: 1, Datatype: "vcf"})
	if err != nil || !removed {
		t.Fatalf("unmark: removed=%v err=%v", removed, err)
	}

	created, err = add.Handle(AddFavoriteCommand{UserID: 1, Datatype: "vcf"})
	if err != nil || !created {
		t.Fatalf("re-mark after unmark: created=%v err=%v", created, err)
	}
}
