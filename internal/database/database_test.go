package database

import (
	"testing"
	"time"

	appconfig "github.com/GTDGit/spayd_api/internal/config"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	got := DSN(&appconfig.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "spayd",
		Password: "p@ss word",
		Name:     "payments",
		SSLMode:  "disable",
	})
	want := "postgres://spayd:p%40ss+word@db:5432/payments?sslmode=disable"
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, time.Second},
		{4, 4 * time.Second},
		{5, 5 * time.Second},
		{60, 5 * time.Second},
	}
	for _, tt := range tests {
		if got := backoff(tt.attempt); got != tt.want {
			t.Errorf("backoff(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}
