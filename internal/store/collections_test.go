package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/j-cqln/reverb/shared/go/models"
)

func TestAddToCollectionFirstMemberSetsImage(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content")).
		WithArgs("sp-1", "track").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO collections_content")).
		WithArgs(int64(7), int64(10)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE collections")).
		WithArgs("http://img/sp-1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.AddToCollection(context.Background(), 7, "sp-1", models.KindTrack, "http://img/sp-1")
	if err != nil {
		t.Fatalf("AddToCollection error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestAddToCollectionLaterMemberKeepsImage(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content")).
		WithArgs("sp-2", "album").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO collections_content")).
		WithArgs(int64(7), int64(11)).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	err := s.AddToCollection(context.Background(), 7, "sp-2", models.KindAlbum, "http://img/sp-2")
	if err != nil {
		t.Fatalf("AddToCollection error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestAddToCollectionExistingReference(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	// ON CONFLICT DO NOTHING returns no row for an existing reference.
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO content")).
		WithArgs("sp-1", "track").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).
		WithArgs("sp-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO collections_content")).
		WithArgs(int64(7), int64(10)).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	err := s.AddToCollection(context.Background(), 7, "sp-1", models.KindTrack, "http://img/sp-1")
	if err != nil {
		t.Fatalf("AddToCollection error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestAddToCollectionMissingCollection(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := s.AddToCollection(context.Background(), 99, "sp-1", models.KindTrack, "")
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestRemoveFromCollectionFirstMemberRederivesImage(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM content")).
		WithArgs("track", "sp-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"content_id"}).AddRow(int64(10)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections_content")).
		WithArgs(int64(7), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY cc.id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"spotify_id", "spotify_type"}).AddRow("sp-2", "album"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE collections")).
		WithArgs("http://img/sp-2", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var lookedUp []string
	lookup := func(ctx context.Context, kind models.Kind, spotifyID string) (string, error) {
		lookedUp = append(lookedUp, spotifyID)
		return "http://img/" + spotifyID, nil
	}

	err := s.RemoveFromCollection(context.Background(), 7, models.KindTrack, "sp-1", lookup)
	if err != nil {
		t.Fatalf("RemoveFromCollection error: %v", err)
	}
	if len(lookedUp) != 1 || lookedUp[0] != "sp-2" {
		t.Fatalf("expected image lookup for new first member, got %v", lookedUp)
	}

	expectationsMet(t, mock)
}

func TestRemoveFromCollectionLastMemberRetainsImage(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM content")).
		WithArgs("track", "sp-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"content_id"}).AddRow(int64(10)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections_content")).
		WithArgs(int64(7), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY cc.id ASC")).
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	lookup := func(ctx context.Context, kind models.Kind, spotifyID string) (string, error) {
		t.Fatal("image lookup must not run when the collection empties")
		return "", nil
	}

	err := s.RemoveFromCollection(context.Background(), 7, models.KindTrack, "sp-1", lookup)
	if err != nil {
		t.Fatalf("RemoveFromCollection error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestRemoveFromCollectionNonFirstMember(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM content")).
		WithArgs("album", "sp-2").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"content_id"}).AddRow(int64(10)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections_content")).
		WithArgs(int64(7), int64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	lookup := func(ctx context.Context, kind models.Kind, spotifyID string) (string, error) {
		t.Fatal("image lookup must not run for a non-first member")
		return "", nil
	}

	err := s.RemoveFromCollection(context.Background(), 7, models.KindAlbum, "sp-2", lookup)
	if err != nil {
		t.Fatalf("RemoveFromCollection error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestRemoveFromCollectionUnknownItem(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM content")).
		WithArgs("track", "sp-404").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := s.RemoveFromCollection(context.Background(), 7, models.KindTrack, "sp-404", nil)
	if !errors.Is(err, ErrCollectionItemNotFound) {
		t.Fatalf("expected ErrCollectionItemNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestCollectionContentPartitionsByKind(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM content c")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "spotify_id", "spotify_type"}).
			AddRow(int64(1), "sp-a", "album").
			AddRow(int64(2), "sp-t1", "track").
			AddRow(int64(3), "sp-t2", "track"))

	ids, err := s.CollectionContent(context.Background(), 7)
	if err != nil {
		t.Fatalf("CollectionContent error: %v", err)
	}

	if len(ids.Tracks) != 2 || ids.Tracks[0] != "sp-t1" || ids.Tracks[1] != "sp-t2" {
		t.Fatalf("unexpected tracks: %v", ids.Tracks)
	}
	if len(ids.Albums) != 1 || ids.Albums[0] != "sp-a" {
		t.Fatalf("unexpected albums: %v", ids.Albums)
	}

	expectationsMet(t, mock)
}

func TestDeleteCollectionMissing(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections_content")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := s.DeleteCollection(context.Background(), 99); !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("expected ErrCollectionNotFound, got %v", err)
	}

	expectationsMet(t, mock)
}
