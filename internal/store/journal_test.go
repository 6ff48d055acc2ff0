package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/j-cqln/reverb/shared/go/models"
)

func TestUpsertJournalEntry(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO journal_entries")).
		WithArgs(int64(1), "sp-1", "track", "first listen on the train").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.UpsertJournalEntry(context.Background(), 1, "sp-1", "first listen on the train", models.KindTrack)
	if err != nil {
		t.Fatalf("UpsertJournalEntry error: %v", err)
	}

	expectationsMet(t, mock)
}

func TestUpsertJournalEntryValidation(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.UpsertJournalEntry(context.Background(), 1, "sp-1", "", models.KindTrack); err == nil {
		t.Fatal("expected error for empty text")
	}
	if err := s.UpsertJournalEntry(context.Background(), 1, "", "text", models.KindTrack); err == nil {
		t.Fatal("expected error for missing content id")
	}
	if err := s.UpsertJournalEntry(context.Background(), 1, "sp-1", "text", "podcast"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestJournalEntriesByUserOrdering(t *testing.T) {
	s, mock := newTestStore(t)

	columns := []string{"id", "user_id", "content_id", "content_type", "text"}
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM journal_entries")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), int64(1), "sp-a", "album", "album note").
			AddRow(int64(2), int64(1), "sp-t", "track", "track note"))

	mock.ExpectQuery(regexp.QuoteMeta("array_agg")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"tracks", "albums"}).
			AddRow([]byte("{sp-t}"), []byte("{sp-a}")))
	mock.ExpectCommit()

	entries, ids, err := s.JournalEntriesByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("JournalEntriesByUser error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ContentID != "sp-t" || entries[1].ContentID != "sp-a" {
		t.Fatalf("unexpected entry order: %+v", entries)
	}
	if len(ids.Tracks) != 1 || ids.Tracks[0] != "sp-t" {
		t.Fatalf("unexpected track ids: %v", ids.Tracks)
	}

	expectationsMet(t, mock)
}

func TestDeleteJournalEntryIdempotent(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM journal_entries")).
		WithArgs(int64(1), "sp-404").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteJournalEntry(context.Background(), 1, "sp-404"); err != nil {
		t.Fatalf("expected nil error for missing entry, got %v", err)
	}

	expectationsMet(t, mock)
}
