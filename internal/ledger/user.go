package ledger

import "fmt"

// User owns an ordered list of accounts. The credential is opaque to the
// ledger: it is carried for persistence and handed to the credential service
// for verification, never compared here.
type User struct {
	username   string
	credential string
	accounts   []*Account
}

// Username returns the unique username.
func (u *User) Username() string { return u.username }

// Credential returns the opaque credential as registered.
func (u *User) Credential() string { return u.credential }

// Accounts returns the user's accounts in creation order. The returned slice
// is a copy; the account handles themselves are live.
func (u *User) Accounts() []*Account {
	out := make([]*Account, len(u.accounts))
	copy(out, u.accounts)
	return out
}

// Account resolves an account handle by number. It fails with
// ErrAccountNotFound when the user owns no account with that number.
func (u *User) Account(number string) (*Account, error) {
	for _, a := range u.accounts {
		if a.number == number {
			return a, nil
		}
	}
	return nil, fmt.Errorf("account %q for user %q: %w", number, u.username, ErrAccountNotFound)
}

// owns reports whether the given handle is one of the user's own accounts.
// Identity comparison on purpose: an equal-looking account from another
// ledger is not this user's account.
func (u *User) owns(a *Account) bool {
	for _, own := range u.accounts {
		if own == a {
			return true
		}
	}
	return false
}
