// Package auth provides the credential registration/verification capability
// the ledger core depends on. The core never compares secrets; it only asks
// this service to verify. Secrets are stored bcrypt-hashed.
package auth

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmptyCredentials indicates an empty username or secret at
	// registration.
	ErrEmptyCredentials = errors.New("username and secret must not be empty")

	// ErrDuplicateUser indicates the username is already registered.
	ErrDuplicateUser = errors.New("username already registered")
)

// Service keeps bcrypt hashes keyed by username.
type Service struct {
	hashes map[string][]byte
	logger *zap.Logger
}

// NewService creates an empty credential registry.
func NewService(logger *zap.Logger) *Service {
	return &Service{hashes: make(map[string][]byte), logger: logger}
}

// Register stores the secret's hash for the username. It fails on empty
// input or a duplicate username.
func (s *Service) Register(username, secret string) error {
	if username == "" || secret == "" {
		return ErrEmptyCredentials
	}
	if _, ok := s.hashes[username]; ok {
		return fmt.Errorf("user %q: %w", username, ErrDuplicateUser)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash credential for %q: %w", username, err)
	}
	s.hashes[username] = hash
	s.logger.Info("Credential registered", zap.String("username", username))
	return nil
}

// Hash returns the stored hash for the username, or "" when unregistered.
// The hash is opaque to callers; it exists so the ledger can persist a
// credential that is not the plaintext secret.
func (s *Service) Hash(username string) string {
	return string(s.hashes[username])
}

// LoadHash restores a previously issued hash, e.g. when rebuilding the
// registry from a ledger snapshot. Existing entries are overwritten.
func (s *Service) LoadHash(username, hash string) {
	if username == "" || hash == "" {
		return
	}
	s.hashes[username] = []byte(hash)
}

// Verify reports whether the secret matches the username's registered hash.
// Unknown usernames verify as false.
func (s *Service) Verify(username, secret string) bool {
	hash, ok := s.hashes[username]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(secret)) == nil
}
