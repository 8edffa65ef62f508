// Package bank exposes the ledger over HTTP. The service layer serializes
// all ledger mutations behind one exclusive lock per ledger instance (the
// ledger core itself is unsynchronized) and writes one audit entry per
// money-operation attempt, success or failure.
package bank

import (
	"sync"

	"github.com/finvault/bankcore/internal/audit"
	"github.com/finvault/bankcore/internal/auth"
	"github.com/finvault/bankcore/internal/ledger"
	"github.com/finvault/bankcore/internal/snapshot"
	"go.uber.org/zap"
)

// AccountView is the caller-facing read model of an account.
type AccountView struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// Service orchestrates the ledger, the credential service, the audit log and
// the snapshot store.
type Service struct {
	mu        sync.Mutex
	ledger    *ledger.Ledger
	creds     *auth.Service
	recorder  audit.Recorder
	snapshots *snapshot.Store
	logger    *zap.Logger
}

// NewService wires a service around an existing ledger.
func NewService(l *ledger.Ledger, creds *auth.Service, recorder audit.Recorder, snapshots *snapshot.Store, logger *zap.Logger) *Service {
	return &Service{
		ledger:    l,
		creds:     creds,
		recorder:  recorder,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Register creates a user in both the credential service and the ledger.
// The ledger stores the bcrypt hash as its opaque credential so snapshots
// never contain plaintext secrets.
func (s *Service) Register(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.creds.Register(username, password); err != nil {
		return err
	}
	if _, err := s.ledger.CreateUser(username, s.creds.Hash(username)); err != nil {
		return err
	}
	s.logger.Info("User registered", zap.String("username", username))
	return nil
}

// Login verifies the password against the credential service.
func (s *Service) Login(username, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creds.Verify(username, password)
}

// CreateAccount opens an account with an initial balance for the user.
func (s *Service) CreateAccount(username, number string, initialBalance int64) (AccountView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.ledger.FindUser(username)
	if err != nil {
		return AccountView{}, err
	}
	a, err := s.ledger.CreateAccount(u, number, initialBalance)
	if err != nil {
		return AccountView{}, err
	}
	s.logger.Info("Account created",
		zap.String("username", username),
		zap.String("account", number),
		zap.Int64("initial_balance", initialBalance),
	)
	return AccountView{AccountNumber: a.Number(), Balance: a.Balance()}, nil
}

// Accounts lists the user's accounts in creation order.
func (s *Service) Accounts(username string) ([]AccountView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.ledger.FindUser(username)
	if err != nil {
		return nil, err
	}
	accounts := u.Accounts()
	out := make([]AccountView, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, AccountView{AccountNumber: a.Number(), Balance: a.Balance()})
	}
	return out, nil
}

// Deposit adds funds to the user's account and records the attempt.
func (s *Service) Deposit(username, number string, amount int64) (AccountView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(username, number, amount, audit.ActionDeposit, func(u *ledger.User, a *ledger.Account) error {
		return s.ledger.Deposit(u, a, amount)
	})
}

// Withdraw removes funds from the user's account and records the attempt.
func (s *Service) Withdraw(username, number string, amount int64) (AccountView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(username, number, amount, audit.ActionWithdraw, func(u *ledger.User, a *ledger.Account) error {
		return s.ledger.Withdraw(u, a, amount)
	})
}

// Transfer moves funds between two accounts and records the attempt against
// the source account.
func (s *Service) Transfer(fromUser, fromNumber, toUser, toNumber string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.transferLocked(fromUser, fromNumber, toUser, toNumber, amount)
	s.record(audit.NewEntry(fromUser, fromNumber, audit.ActionTransfer, amount, err == nil))
	return err
}

func (s *Service) transferLocked(fromUser, fromNumber, toUser, toNumber string, amount int64) error {
	from, err := s.ledger.FindUser(fromUser)
	if err != nil {
		return err
	}
	to, err := s.ledger.FindUser(toUser)
	if err != nil {
		return err
	}
	src, err := from.Account(fromNumber)
	if err != nil {
		return err
	}
	dst, err := to.Account(toNumber)
	if err != nil {
		return err
	}
	return s.ledger.Transfer(from, src, to, dst, amount)
}

// Snapshot flushes the full ledger state to the snapshot store.
func (s *Service) Snapshot() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshots.Save(s.ledger)
}

// mutate resolves the handles, applies op, and records the attempt whether
// or not it succeeded. An audit write failure is logged but never masks the
// operation's own result.
func (s *Service) mutate(username, number string, amount int64, action string, op func(*ledger.User, *ledger.Account) error) (AccountView, error) {
	u, findErr := s.ledger.FindUser(username)
	var a *ledger.Account
	err := findErr
	if err == nil {
		if a, err = u.Account(number); err == nil {
			err = op(u, a)
		}
	}

	s.record(audit.NewEntry(username, number, action, amount, err == nil))

	if err != nil {
		return AccountView{}, err
	}
	return AccountView{AccountNumber: a.Number(), Balance: a.Balance()}, nil
}

func (s *Service) record(entry audit.Entry) {
	if err := s.recorder.Record(entry); err != nil {
		s.logger.Warn("Audit record failed",
			zap.String("username", entry.Username),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}
