package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Backup copies the local upload directory once a day at a fixed hour and
// prunes copies older than Retention.
type Backup struct {
	SrcDir    string
	BackupDir string
	Retention time.Duration
	Hour      int
	Minute    int

	now func() time.Time
}

func NewBackup(srcDir, backupDir string, retention time.Duration, hour int) *Backup {
	return &Backup{
		SrcDir:    srcDir,
		BackupDir: backupDir,
		Retention: retention,
		Hour:      hour,
		now:       time.Now,
	}
}

// Run blocks until ctx is cancelled.
func (b *Backup) Run(ctx context.Context) {
	for {
		next := b.nextRun()
		zap.L().Info("next image backup scheduled", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(b.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if dest, err := b.RunOnce(); err != nil {
			zap.L().Error("failed to back up images", zap.Error(err))
		} else {
			zap.L().Info("images backed up", zap.String("dest", dest))
		}
	}
}

// RunOnce takes one backup and prunes old ones.
func (b *Backup) RunOnce() (string, error) {
	dest := filepath.Join(b.BackupDir, b.now().Format("2006-01-02_15-04-05"))
	if err := copyDir(b.SrcDir, dest); err != nil {
		return "", err
	}
	b.cleanup()
	return dest, nil
}

func (b *Backup) nextRun() time.Time {
	now := b.now()
	next := time.Date(now.Year(), now.Month(), now.Day(), b.Hour, b.Minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func (b *Backup) cleanup() {
	entries, err := os.ReadDir(b.BackupDir)
	if err != nil {
		zap.L().Error("failed to read backup directory", zap.Error(err))
		return
	}

	cutoff := b.now().Add(-b.Retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(b.BackupDir, entry.Name())
		info, err := os.Stat(folder)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folder); err != nil {
				zap.L().Error("failed to remove old backup", zap.String("path", folder), zap.Error(err))
			} else {
				zap.L().Info("removed old backup", zap.String("path", folder))
			}
		}
	}
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
