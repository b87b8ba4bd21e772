package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/memory/internal/database"
	"github.com/playperu/memory/internal/memory"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) Check(ctx context.Context) error { return f(ctx) }

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   -1,
	})
}

func TestHandleHealth(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer db.Close()

	rdb := deadRedis()
	defer rdb.Close()

	sqliteOK := checkFunc(db.PingContext)
	redisDown := checkFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })

	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus int
		want       map[string]string
	}{
		{
			name:       "no checks",
			checks:     map[string]Checker{},
			wantStatus: http.StatusOK,
			want:       map[string]string{},
		},
		{
			name:       "sqlite ok",
			checks:     map[string]Checker{"sqlite": sqliteOK},
			wantStatus: http.StatusOK,
			want:       map[string]string{"sqlite": "ok"},
		},
		{
			name:       "redis down",
			checks:     map[string]Checker{"sqlite": sqliteOK, "redis": redisDown},
			wantStatus: http.StatusServiceUnavailable,
			want:       map[string]string{"sqlite": "ok", "redis": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := NewSessions(memory.IconList(nil), NewBroker(), slog.New(slog.DiscardHandler))
			defer sessions.Close()
			sessions.Create("profile", memory.DefaultSettings())

			h := handleHealth(slog.New(slog.DiscardHandler), tt.checks, sessions)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rec := httptest.NewRecorder()
			h(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding: %v", err)
			}
			if body.Sessions != 1 {
				t.Errorf("sessions = %d, want 1", body.Sessions)
			}
			if len(body.Checks) != len(tt.want) {
				t.Errorf("checks = %v, want %v", body.Checks, tt.want)
			}
			for name, want := range tt.want {
				if got := body.Checks[name].Status; got != want {
					t.Errorf("%s = %q, want %q", name, got, want)
				}
			}
		})
	}
}
