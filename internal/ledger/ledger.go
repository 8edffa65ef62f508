// Package ledger implements the in-memory account ledger: users, accounts
// and the money-movement operations (deposit, withdraw, transfer) with their
// consistency guarantees. The ledger is the aggregate root owning all users
// and transitively all accounts; there is no package-level state, every
// operation goes through an explicit Ledger instance.
//
// The ledger is not internally synchronized. Callers needing concurrency
// hold one exclusive lock per Ledger instance for the duration of each
// mutating call.
package ledger

import "fmt"

// Ledger owns the set of registered users, unique by username, in
// registration order.
type Ledger struct {
	users  []*User
	byName map[string]*User
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{byName: make(map[string]*User)}
}

// Users returns all registered users in registration order.
func (l *Ledger) Users() []*User {
	out := make([]*User, len(l.users))
	copy(out, l.users)
	return out
}

// FindUser resolves a user handle by username. It fails with
// ErrUserNotFound when no such user is registered.
func (l *Ledger) FindUser(username string) (*User, error) {
	u, ok := l.byName[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}
	return u, nil
}

// CreateUser registers a new user. It fails with ErrInvalidInput when either
// field is empty and with ErrDuplicateUser when the username is taken.
func (l *Ledger) CreateUser(username, credential string) (*User, error) {
	if username == "" || credential == "" {
		return nil, ErrInvalidInput
	}
	if _, ok := l.byName[username]; ok {
		return nil, fmt.Errorf("user %q: %w", username, ErrDuplicateUser)
	}
	u := &User{username: username, credential: credential}
	l.users = append(l.users, u)
	l.byName[username] = u
	return u, nil
}

// CreateAccount attaches a new account to the given user. The account number
// must be exactly AccountNumberLength characters (ErrInvalidAccountNumber)
// and the initial balance non-negative (ErrInvalidAmount).
func (l *Ledger) CreateAccount(u *User, number string, balance int64) (*Account, error) {
	if err := l.requireUser(u); err != nil {
		return nil, err
	}
	if len(number) != AccountNumberLength {
		return nil, fmt.Errorf("account number %q: %w", number, ErrInvalidAccountNumber)
	}
	if balance < 0 {
		return nil, fmt.Errorf("initial balance %d: %w", balance, ErrInvalidAmount)
	}
	a := newAccount(number, balance)
	u.accounts = append(u.accounts, a)
	return a, nil
}

// Deposit adds amount to the account on behalf of the user. It fails with
// ErrUserNotFound for an unregistered user; account-level failures propagate
// unchanged.
func (l *Ledger) Deposit(u *User, a *Account, amount int64) error {
	if err := l.requireUser(u); err != nil {
		return err
	}
	return a.Deposit(amount)
}

// Withdraw removes amount from the account on behalf of the user. It fails
// with ErrUserNotFound for an unregistered user; account-level failures
// propagate unchanged.
func (l *Ledger) Withdraw(u *User, a *Account, amount int64) error {
	if err := l.requireUser(u); err != nil {
		return err
	}
	return a.Withdraw(amount)
}

// Transfer moves amount from one user's account to another's as a single
// atomic step. All validation runs before any balance is touched: amount
// positivity once up front, user registration, account ownership, then
// source sufficiency. Under these rules the deposit leg cannot fail after
// the withdraw leg, so a failed transfer never leaves the source
// decremented.
func (l *Ledger) Transfer(from *User, src *Account, to *User, dst *Account, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("transfer %d: %w", amount, ErrInvalidAmount)
	}
	if err := l.requireUser(from); err != nil {
		return err
	}
	if err := l.requireUser(to); err != nil {
		return err
	}
	if !from.owns(src) {
		return fmt.Errorf("source account for user %q: %w", from.username, ErrAccountNotFound)
	}
	if !to.owns(dst) {
		return fmt.Errorf("destination account for user %q: %w", to.username, ErrAccountNotFound)
	}
	if err := src.Withdraw(amount); err != nil {
		return err
	}
	return dst.Deposit(amount)
}

// requireUser checks that the handle belongs to this ledger. Identity
// comparison: a user of the same name registered elsewhere does not count.
func (l *Ledger) requireUser(u *User) error {
	if u == nil {
		return ErrUserNotFound
	}
	if registered, ok := l.byName[u.username]; !ok || registered != u {
		return fmt.Errorf("user %q: %w", u.username, ErrUserNotFound)
	}
	return nil
}
