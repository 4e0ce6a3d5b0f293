package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBackup_CreateAndRestore(t *testing.T) {
	rec, _, db := setupRecordService(t)
	checkins := NewCheckinService(db, testLogger())
	dir := filepath.Join(t.TempDir(), "backups")
	backups := NewBackupService(db, dir, "secret", testLogger())
	ctx := context.Background()

	id, err := rec.Create(ctx, recordInput("keep me", "2024-02-02"), []UploadedFile{upload("a.png", "image/png", "x")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	checkins.Create(ctx, CreateCheckinInput{Date: "2024-02-02", MoodScore: intPtr(6)})

	info, err := backups.Create(ctx)
	if err != nil {
		t.Fatalf("backup Create() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, info.Name)); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}

	list, err := backups.List()
	if err != nil || len(list) != 1 || list[0].Name != info.Name {
		t.Fatalf("List() = %v, %v", list, err)
	}

	// diverge from the snapshot
	rec.Create(ctx, recordInput("added later", "2024-02-03"), nil)

	res, err := backups.Restore(ctx, info.Name)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if res.Records != 1 || res.Media != 1 || res.Checkins != 1 {
		t.Errorf("Restore() = %+v", res)
	}

	page, _ := rec.List(ctx, ListQuery{Page: 1})
	if page.Total != 1 || page.Records[0].ID != id || page.Records[0].MediaCount != 1 {
		t.Errorf("records after restore = %+v", page)
	}
	if _, err := checkins.GetByDate(ctx, "2024-02-02"); err != nil {
		t.Errorf("checkin missing after restore: %v", err)
	}

	// new rows still get fresh ids
	newID, err := rec.Create(ctx, recordInput("after restore", "2024-02-04"), nil)
	if err != nil || newID == id {
		t.Errorf("Create() after restore = %d, %v", newID, err)
	}
}

func TestBackup_Disabled(t *testing.T) {
	backups := NewBackupService(setupTestDB(t), t.TempDir(), "", testLogger())
	if _, err := backups.Create(context.Background()); !errors.Is(err, ErrBackupDisabled) {
		t.Errorf("Create() error = %v, want ErrBackupDisabled", err)
	}
}

func TestBackup_RestoreErrors(t *testing.T) {
	dir := t.TempDir()
	backups := NewBackupService(setupTestDB(t), dir, "secret", testLogger())
	ctx := context.Background()

	if _, err := backups.Restore(ctx, "../etc/passwd"); !errors.Is(err, ErrValidation) {
		t.Errorf("Restore(traversal) error = %v, want ErrValidation", err)
	}
	missing := "backup-00000000-0000-0000-0000-000000000000.bin"
	if _, err := backups.Restore(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Restore(missing) error = %v, want ErrNotFound", err)
	}

	os.WriteFile(filepath.Join(dir, missing), []byte("garbage-garbage-garbage-garbage-garbage"), 0o600)
	if _, err := backups.Restore(ctx, missing); !errors.Is(err, ErrValidation) {
		t.Errorf("Restore(garbage) error = %v, want ErrValidation", err)
	}
}
