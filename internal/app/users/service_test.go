package users

import (
	"context"
	"errors"
	"testing"

	"github.com/j-cqln/reverb/shared/go/models"
)

type fakeStore struct {
	Store

	favorite    string
	favoriteErr error

	setKind  models.Kind
	setValue *string
	setCalls int

	verifyOK bool

	updatedPassword string
}

func (f *fakeStore) Favorite(ctx context.Context, userID int64, kind models.Kind) (string, error) {
	return f.favorite, f.favoriteErr
}

func (f *fakeStore) SetFavorite(ctx context.Context, userID int64, kind models.Kind, contentID *string) error {
	f.setKind = kind
	f.setValue = contentID
	f.setCalls++
	return nil
}

func (f *fakeStore) VerifyPassword(ctx context.Context, userID int64, password string) (bool, error) {
	return f.verifyOK, nil
}

func (f *fakeStore) UpdatePassword(ctx context.Context, userID int64, password string) error {
	f.updatedPassword = password
	return nil
}

type fakeSessions struct{}

func (fakeSessions) Issue(userID int64) (string, error) { return "token", nil }

func TestToggleFavoriteSetsNewItem(t *testing.T) {
	st := &fakeStore{favorite: "sp-old"}
	svc := New(st, fakeSessions{})

	favorited, err := svc.ToggleFavorite(context.Background(), 1, models.KindTrack, "sp-new")
	if err != nil {
		t.Fatalf("ToggleFavorite error: %v", err)
	}
	if !favorited {
		t.Fatal("expected item to become the favorite")
	}
	if st.setValue == nil || *st.setValue != "sp-new" {
		t.Fatalf("expected favorite set to sp-new, got %v", st.setValue)
	}
}

func TestToggleFavoriteClearsCurrentItem(t *testing.T) {
	st := &fakeStore{favorite: "sp-1"}
	svc := New(st, fakeSessions{})

	favorited, err := svc.ToggleFavorite(context.Background(), 1, models.KindTrack, "sp-1")
	if err != nil {
		t.Fatalf("ToggleFavorite error: %v", err)
	}
	if favorited {
		t.Fatal("expected favorite to be cleared")
	}
	if st.setValue != nil {
		t.Fatalf("expected nil content id for clear, got %q", *st.setValue)
	}
}

func TestToggleFavoritePropagatesLookupError(t *testing.T) {
	st := &fakeStore{favoriteErr: errors.New("boom")}
	svc := New(st, fakeSessions{})

	if _, err := svc.ToggleFavorite(context.Background(), 1, models.KindTrack, "sp-1"); err == nil {
		t.Fatal("expected error")
	}
	if st.setCalls != 0 {
		t.Fatal("expected no set after lookup failure")
	}
}

func TestChangePasswordRejectsWrongCurrent(t *testing.T) {
	st := &fakeStore{verifyOK: false}
	svc := New(st, fakeSessions{})

	err := svc.ChangePassword(context.Background(), 1, "wrong", "NewPass1")
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if st.updatedPassword != "" {
		t.Fatal("expected password to stay unchanged")
	}
}

func TestChangePassword(t *testing.T) {
	st := &fakeStore{verifyOK: true}
	svc := New(st, fakeSessions{})

	if err := svc.ChangePassword(context.Background(), 1, "OldPass1", "NewPass1"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}
	if st.updatedPassword != "NewPass1" {
		t.Fatalf("expected new password stored, got %q", st.updatedPassword)
	}
}
