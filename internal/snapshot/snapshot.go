// Package snapshot serializes the full ledger state to a flat CSV
// representation and reconstructs it: a header row, then one record per
// (user, account) pair in user-registration order with fields
// username,credential,account_number,balance.
package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/finvault/bankcore/internal/ledger"
	"go.uber.org/zap"
)

// ErrMalformedRecord indicates a snapshot row with the wrong field count or
// a non-integer balance.
var ErrMalformedRecord = errors.New("malformed snapshot record")

// ErrPersistence indicates the snapshot file could not be read or written.
var ErrPersistence = errors.New("snapshot persistence failed")

var header = []string{"username", "credential", "account_number", "balance"}

// Store reads and writes ledger snapshots at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore creates a snapshot store for the given path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the snapshot file path.
func (s *Store) Path() string { return s.path }

// Exists reports whether a snapshot file is present at the store's path.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Save overwrites the snapshot file with the ledger's current state.
func (s *Store) Save(l *ledger.Ledger) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %v: %w", s.path, err, ErrPersistence)
	}
	defer f.Close()

	if err := Write(f, l); err != nil {
		return err
	}
	s.logger.Info("Ledger snapshot saved", zap.String("path", s.path), zap.Int("users", len(l.Users())))
	return nil
}

// Load reconstructs a ledger from the snapshot file.
func (s *Store) Load() (*ledger.Ledger, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", s.path, err, ErrPersistence)
	}
	defer f.Close()

	l, err := Read(f)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Ledger snapshot loaded", zap.String("path", s.path), zap.Int("users", len(l.Users())))
	return l, nil
}

// Write emits the header and one row per (user, account), users in
// registration order, accounts in creation order.
func Write(w io.Writer, l *ledger.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %v: %w", err, ErrPersistence)
	}
	for _, u := range l.Users() {
		for _, a := range u.Accounts() {
			row := []string{u.Username(), u.Credential(), a.Number(), strconv.FormatInt(a.Balance(), 10)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row for %s/%s: %v: %w", u.Username(), a.Number(), err, ErrPersistence)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush snapshot: %v: %w", err, ErrPersistence)
	}
	return nil
}

// Read reconstructs a ledger from snapshot rows. Usernames repeating across
// rows resolve to one user with multiple accounts; rows that repeat a
// username with a different credential are rejected as malformed, as are
// rows with the wrong field count or a non-integer balance.
func Read(r io.Reader) (*ledger.Ledger, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // field count is validated per row below

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %v: %w", err, ErrMalformedRecord)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row: %w", ErrMalformedRecord)
	}

	l := ledger.New()
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		if len(row) != len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d: %w", line, len(header), len(row), ErrMalformedRecord)
		}
		username, credential, number := row[0], row[1], row[2]
		balance, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: balance %q: %w", line, row[3], ErrMalformedRecord)
		}

		u, err := l.FindUser(username)
		if err != nil {
			if u, err = l.CreateUser(username, credential); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		} else if u.Credential() != credential {
			return nil, fmt.Errorf("line %d: credential mismatch for user %q: %w", line, username, ErrMalformedRecord)
		}
		if _, err := l.CreateAccount(u, number, balance); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	return l, nil
}
