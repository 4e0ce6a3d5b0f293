package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/util"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrBackupDisabled is returned when no backup key is configured.
var ErrBackupDisabled = errors.New("backups are disabled: backup.key is not set")

var backupNamePattern = regexp.MustCompile(`^backup-[0-9a-f-]{36}\.bin$`)

// snapshot is the plaintext content of a backup file. Media bytes are not
// included, only the rows.
type snapshot struct {
	Created  time.Time        `json:"created"`
	Records  []models.Record  `json:"records"`
	Checkins []models.Checkin `json:"checkins"`
}

// BackupInfo describes one backup file.
type BackupInfo struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// RestoreResult reports what a restore wrote.
type RestoreResult struct {
	Records  int `json:"records"`
	Media    int `json:"media"`
	Checkins int `json:"checkins"`
}

// BackupService writes and restores encrypted snapshots of all rows.
type BackupService struct {
	db     *gorm.DB
	dir    string
	key    string
	logger *slog.Logger
}

func NewBackupService(db *gorm.DB, dir, key string, logger *slog.Logger) *BackupService {
	return &BackupService{db: db, dir: dir, key: key, logger: logger}
}

// Enabled reports whether a backup key is configured.
func (s *BackupService) Enabled() bool { return s.key != "" }

// Create snapshots every record, attachment row and checkin into a new
// encrypted file.
func (s *BackupService) Create(ctx context.Context) (*BackupInfo, error) {
	if !s.Enabled() {
		return nil, ErrBackupDisabled
	}

	data := snapshot{Created: time.Now().UTC()}
	db := s.db.WithContext(ctx)
	if err := db.Preload("Media").Order("id ASC").Find(&data.Records).Error; err != nil {
		return nil, storageErr("read records", err)
	}
	if err := db.Order("id ASC").Find(&data.Checkins).Error; err != nil {
		return nil, storageErr("read checkins", err)
	}

	raw, err := json.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	enc, err := util.EncryptAES(s.key, raw)
	if err != nil {
		return nil, fmt.Errorf("encrypt snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, storageErr("create backup dir", err)
	}
	name := fmt.Sprintf("backup-%s.bin", uuid.New().String())
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, enc, 0o600); err != nil {
		return nil, storageErr("write backup", err)
	}

	s.logger.Info("backup created",
		"name", name,
		"records", len(data.Records),
		"checkins", len(data.Checkins),
	)
	return &BackupInfo{Name: name, Size: int64(len(enc)), CreatedAt: data.Created}, nil
}

// List returns existing backup files, newest first.
func (s *BackupService) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []BackupInfo{}, nil
		}
		return nil, storageErr("read backup dir", err)
	}

	out := make([]BackupInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !backupNamePattern.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, BackupInfo{Name: e.Name(), Size: info.Size(), CreatedAt: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Restore replaces all rows with the content of the named backup inside a
// single transaction. Original ids are kept.
func (s *BackupService) Restore(ctx context.Context, name string) (*RestoreResult, error) {
	if !s.Enabled() {
		return nil, ErrBackupDisabled
	}
	if !backupNamePattern.MatchString(name) {
		return nil, &ValidationError{Message: "invalid backup name"}
	}

	enc, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{Resource: "backup", ID: name}
		}
		return nil, storageErr("read backup", err)
	}
	raw, err := util.DecryptAES(s.key, enc)
	if err != nil {
		return nil, &ValidationError{Message: "cannot decrypt backup: " + err.Error()}
	}
	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ValidationError{Message: "malformed backup: " + err.Error()}
	}

	var res RestoreResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.Media{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&models.Record{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&models.Checkin{}).Error; err != nil {
			return err
		}

		for i := range data.Records {
			r := data.Records[i]
			media := r.Media
			r.Media = nil
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			for j := range media {
				m := media[j]
				m.RecordID = r.ID
				if err := tx.Create(&m).Error; err != nil {
					return err
				}
				res.Media++
			}
			res.Records++
		}
		for i := range data.Checkins {
			c := data.Checkins[i]
			if err := tx.Create(&c).Error; err != nil {
				return err
			}
			res.Checkins++
		}
		return resetSequences(tx)
	})
	if err != nil {
		return nil, storageErr("restore backup", err)
	}

	s.logger.Info("backup restored",
		"name", name,
		"records", res.Records,
		"media", res.Media,
		"checkins", res.Checkins,
	)
	return &res, nil
}

// resetSequences moves PostgreSQL id sequences past the restored ids.
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{"life_record", "media_file", "daily_checkin"} {
		q := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM %[1]s",
			table,
		)
		if err := tx.Exec(q).Error; err != nil {
			return err
		}
	}
	return nil
}
