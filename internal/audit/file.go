package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// FileRecorder appends one CSV line per attempt to a flat file:
// timestamp,username,account_number,action,amount,success.
type FileRecorder struct {
	path   string
	logger *zap.Logger
}

// NewFileRecorder creates a recorder appending to the given path. The file
// is created on first write.
func NewFileRecorder(path string, logger *zap.Logger) *FileRecorder {
	return &FileRecorder{path: path, logger: logger}
}

// Record appends the entry. The file is opened and closed per call so a
// crash between attempts never holds the log hostage; any I/O failure is
// reported as ErrPersistence.
func (r *FileRecorder) Record(entry Entry) error {
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %v: %w", r.path, err, ErrPersistence)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		entry.Timestamp.Format(time.RFC3339Nano),
		entry.Username,
		entry.AccountNumber,
		entry.Action,
		strconv.FormatInt(entry.Amount, 10),
		strconv.FormatBool(entry.Success),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write %s: %v: %w", r.path, err, ErrPersistence)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %v: %w", r.path, err, ErrPersistence)
	}

	r.logger.Debug("Audit entry recorded",
		zap.String("username", entry.Username),
		zap.String("account", entry.AccountNumber),
		zap.String("action", entry.Action),
		zap.Int64("amount", entry.Amount),
		zap.Bool("success", entry.Success),
	)
	return nil
}
