package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"lifelog/internal/config"
	"lifelog/internal/database"
	"lifelog/internal/storage"

	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestDB opens a migrated sqlite database inside t.TempDir().
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{
		URL: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("Init test database failed: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupRecordService(t *testing.T) (*RecordService, *storage.MediaStore, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	store, err := storage.NewMediaStore(filepath.Join(t.TempDir(), "uploads"),
		[]string{"png", "jpg", "jpeg", "gif", "pdf", "txt"})
	if err != nil {
		t.Fatalf("NewMediaStore failed: %v", err)
	}
	return NewRecordService(db, store, 10, testLogger()), store, db
}

func upload(name, contentType, body string) UploadedFile {
	return UploadedFile{
		Filename:    name,
		ContentType: contentType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func recordInput(title, date string) CreateRecordInput {
	return CreateRecordInput{
		Title:      title,
		Content:    "content of " + title,
		RecordDate: date,
	}
}
