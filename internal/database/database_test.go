package database

import (
	"path/filepath"
	"testing"

	"github.com/artconnect/marketplace/internal/config"
	"github.com/artconnect/marketplace/internal/models"
)

func TestConnectFallsBackToSQLite(t *testing.T) {
	cfg := &config.Config{SQLitePath: filepath.Join(t.TempDir(), "fallback.db")}

	db, err := Connect(cfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Ping(db); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if !db.Migrator().HasTable(&models.Artwork{}) {
		t.Fatal("expected artworks table to exist")
	}
	if !db.Migrator().HasTable(&models.OTPCode{}) {
		t.Fatal("expected otp_codes table to exist")
	}
}
