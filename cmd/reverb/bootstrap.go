package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/j-cqln/reverb/internal/store"
)

// bootstrapDemoData seeds two demo accounts joined by a pending friend
// request, so a fresh instance has something to log in with. Everything here
// is idempotent across restarts.
func bootstrapDemoData(ctx context.Context, dataStore *store.Store) error {
	demoID, err := ensureDemoUser(ctx, dataStore, "demo", "DemoPass1")
	if err != nil {
		return err
	}
	friendID, err := ensureDemoUser(ctx, dataStore, "demofriend", "DemoPass1")
	if err != nil {
		return err
	}

	if _, err := dataStore.SendFriendRequest(ctx, friendID, demoID); err != nil &&
		!errors.Is(err, store.ErrFriendRequestPending) &&
		!errors.Is(err, store.ErrAlreadyFriends) {
		return fmt.Errorf("bootstrap demo friendship: %w", err)
	}

	return nil
}

func ensureDemoUser(ctx context.Context, dataStore *store.Store, username, password string) (int64, error) {
	userID, err := dataStore.CreateUser(ctx, username, password)
	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, store.ErrUserExists) {
		return 0, fmt.Errorf("bootstrap user %s: %w", username, err)
	}

	existing, err := dataStore.UserByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("lookup bootstrap user %s: %w", username, err)
	}
	return existing.ID, nil
}
