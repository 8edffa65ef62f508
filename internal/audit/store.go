package audit

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// StoreRecorder persists entries to a relational table through gorm. It is
// an optional sink next to the flat-file log; the Entry schema is identical.
type StoreRecorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenStore opens (and migrates) a sqlite-backed audit store at the given
// path.
func OpenStore(path string, logger *zap.Logger) (*StoreRecorder, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open audit store %s: %v: %w", path, err, ErrPersistence)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate audit store %s: %v: %w", path, err, ErrPersistence)
	}
	return &StoreRecorder{db: db, logger: logger}, nil
}

// NewStoreRecorder wraps an existing gorm handle; the Entry table must
// already exist.
func NewStoreRecorder(db *gorm.DB, logger *zap.Logger) *StoreRecorder {
	return &StoreRecorder{db: db, logger: logger}
}

// Record inserts the entry. Insert failures surface as ErrPersistence.
func (r *StoreRecorder) Record(entry Entry) error {
	if err := r.db.Create(&entry).Error; err != nil {
		return fmt.Errorf("insert audit entry: %v: %w", err, ErrPersistence)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *StoreRecorder) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	if err := r.db.Order("timestamp desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("query audit entries: %v: %w", err, ErrPersistence)
	}
	return entries, nil
}

// Multi fans one attempt out to several sinks. The first failure is
// returned, but every sink still sees the entry.
type Multi []Recorder

// Record writes the entry to every sink.
func (m Multi) Record(entry Entry) error {
	var first error
	for _, r := range m {
		if err := r.Record(entry); err != nil && first == nil {
			first = err
		}
	}
	return first
}
