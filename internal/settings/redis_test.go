package settings_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/playperu/memory/internal/memory"
	"github.com/playperu/memory/internal/settings"
)

func TestRedisKVUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   0,
	})
	defer client.Close()

	store := settings.NewStore(settings.NewRedisKV(client, 0))

	got, err := store.GameSettings(context.Background(), "p1")
	if err == nil {
		t.Fatal("expected error from unreachable redis")
	}
	if errors.Is(err, settings.ErrNotFound) {
		t.Fatal("connection failure reported as not found")
	}
	if got != memory.DefaultSettings() {
		t.Errorf("got %+v, want defaults alongside the error", got)
	}
}

// TestRedisKVRoundTrip runs against a live server named by REDIS_URL.
func TestRedisKVRoundTrip(t *testing.T) {
	rawURL := os.Getenv("REDIS_URL")
	if rawURL == "" {
		t.Skip("REDIS_URL not set")
	}
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		t.Fatalf("parsing REDIS_URL: %v", err)
	}
	client := redis.NewClient(opt)
	defer client.Close()

	ctx := context.Background()
	kv := settings.NewRedisKV(client, time.Minute)
	profile := uuid.NewString()

	if _, err := kv.Get(ctx, profile); !errors.Is(err, settings.ErrNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}

	store := settings.NewStore(kv)
	red := memory.PlayerRed
	if _, err := store.UpdateGameSettings(ctx, profile, settings.Patch{StartingPlayer: &red}); err != nil {
		t.Fatalf("UpdateGameSettings: %v", err)
	}
	got, err := store.GameSettings(ctx, profile)
	if err != nil {
		t.Fatalf("GameSettings: %v", err)
	}
	if got.StartingPlayer != memory.PlayerRed {
		t.Errorf("starting player = %q, want red", got.StartingPlayer)
	}
}
