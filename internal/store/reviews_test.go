package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/j-cqln/reverb/shared/go/models"
)

func TestUpsertReview(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews")).
		WithArgs(int64(1), "track", "sp-1", 4, "great opener").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.UpsertReview(context.Background(), 1, models.KindTrack, "sp-1", 4, "great opener")
	if err != nil {
		t.Fatalf("UpsertReview error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestUpsertReviewValidation(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.UpsertReview(context.Background(), 1, "podcast", "sp-1", 4, ""); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := s.UpsertReview(context.Background(), 1, models.KindTrack, "", 4, ""); err == nil {
		t.Fatal("expected error for missing content id")
	}
}

// Records come back tracks first, then albums, each kind ordered by row id;
// the aggregated id lists follow the same order so the two zip positionally.
// Both statements must run inside one transaction: separate snapshots would
// let a concurrent write mispair the two outputs.
func TestReviewsByUserOrdering(t *testing.T) {
	s, mock := newTestStore(t)

	columns := []string{"id", "user_id", "content_type", "content_id", "rating", "text"}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reviews")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(1), "album", "sp-a", 5, "").
			AddRow(int64(2), int64(1), "track", "sp-t1", 3, "").
			AddRow(int64(3), int64(1), "track", "sp-t2", 4, ""))

	mock.ExpectQuery(regexp.QuoteMeta("array_agg")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"tracks", "albums"}).
			AddRow([]byte("{sp-t1,sp-t2}"), []byte("{sp-a}")))
	mock.ExpectCommit()

	reviews, ids, err := s.ReviewsByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ReviewsByUser error: %v", err)
	}

	if len(reviews) != 3 {
		t.Fatalf("expected 3 reviews, got %d", len(reviews))
	}
	if reviews[0].ContentID != "sp-t1" || reviews[1].ContentID != "sp-t2" || reviews[2].ContentID != "sp-a" {
		t.Fatalf("unexpected review order: %+v", reviews)
	}
	if len(ids.Tracks) != 2 || ids.Tracks[0] != "sp-t1" || ids.Tracks[1] != "sp-t2" {
		t.Fatalf("unexpected track ids: %v", ids.Tracks)
	}
	if len(ids.Albums) != 1 || ids.Albums[0] != "sp-a" {
		t.Fatalf("unexpected album ids: %v", ids.Albums)
	}

	expectationsMet(t, mock)
}

func TestDeleteReviewIdempotent(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews")).
		WithArgs(int64(1), "sp-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteReview(context.Background(), 1, "sp-404"); err != nil {
		t.Fatalf("expected nil error for missing review, got %v", err)
	}

	expectationsMet(t, mock)
}

func TestMostReviewedSitewide(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COUNT(*) DESC, content_id ASC")).
		WithArgs("track").
		WillReturnRows(sqlmock.NewRows([]string{"content_id"}).AddRow("sp-1"))

	contentID, err := s.MostReviewed(context.Background(), models.KindTrack, nil)
	if err != nil {
		t.Fatalf("MostReviewed error: %v", err)
	}
	if contentID != "sp-1" {
		t.Fatalf("expected sp-1, got %q", contentID)
	}

	expectationsMet(t, mock)
}

func TestMostReviewedForUser(t *testing.T) {
	s, mock := newTestStore(t)

	userID := int64(3)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COUNT(*) DESC, content_id ASC")).
		WithArgs("album", userID).
		WillReturnRows(sqlmock.NewRows([]string{"content_id"}).AddRow("sp-9"))

	contentID, err := s.MostReviewed(context.Background(), models.KindAlbum, &userID)
	if err != nil {
		t.Fatalf("MostReviewed error: %v", err)
	}
	if contentID != "sp-9" {
		t.Fatalf("expected sp-9, got %q", contentID)
	}

	expectationsMet(t, mock)
}

func TestMostReviewedNoReviews(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COUNT(*) DESC, content_id ASC")).
		WithArgs("track").
		WillReturnError(sql.ErrNoRows)

	contentID, err := s.MostReviewed(context.Background(), models.KindTrack, nil)
	if err != nil {
		t.Fatalf("MostReviewed error: %v", err)
	}
	if contentID != "" {
		t.Fatalf("expected empty id, got %q", contentID)
	}

	expectationsMet(t, mock)
}
