package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Backup copies the dataset file into backupDir under a timestamped name
// (<stem>_backup_<yyyymmdd_hhmmss><ext>) and returns the backup path.
// Repairs rewrite the table in place, so this is the only way back.
func Backup(path, backupDir string) (string, error) {
	if err := statFile(path); err != nil {
		return "", err
	}
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", eris.Wrapf(err, "storage: create backup directory %s", backupDir)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	stamp := time.Now().Format("20060102_150405")
	backupPath := filepath.Join(backupDir, stem+"_backup_"+stamp+ext)

	src, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "storage: open %s", path)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", eris.Wrapf(err, "storage: create %s", backupPath)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", eris.Wrapf(err, "storage: copy to %s", backupPath)
	}
	if err := dst.Close(); err != nil {
		return "", eris.Wrapf(err, "storage: close %s", backupPath)
	}

	zap.L().Info("storage: backup created", zap.String("path", backupPath))
	return backupPath, nil
}
