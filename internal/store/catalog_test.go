package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/j-cqln/reverb/shared/go/models"
)

func TestEnsureContentInsertsNewReference(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content")).
		WithArgs("sp-1", "track").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	id, err := s.EnsureContent(context.Background(), "sp-1", models.KindTrack)
	if err != nil {
		t.Fatalf("EnsureContent error: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected id 11, got %d", id)
	}

	expectationsMet(t, mock)
}

func TestEnsureContentReturnsExistingReference(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content")).
		WithArgs("sp-1", "track").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("FROM content")).
		WithArgs("sp-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := s.EnsureContent(context.Background(), "sp-1", models.KindTrack)
	if err != nil {
		t.Fatalf("EnsureContent error: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}

	expectationsMet(t, mock)
}

func TestEnsureContentValidation(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.EnsureContent(context.Background(), "", models.KindTrack); err == nil {
		t.Fatal("expected error for missing external id")
	}
	if _, err := s.EnsureContent(context.Background(), "sp-1", "podcast"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
