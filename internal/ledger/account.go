package ledger

import "fmt"

// AccountNumberLength is the fixed width of every account number.
const AccountNumberLength = 5

// Account holds a single balance identified by a fixed-width account number.
// Balances are integer minor units and never go negative. Mutation happens
// only through Deposit and Withdraw; accounts are not internally
// synchronized, callers serialize access (see Ledger).
type Account struct {
	number  string
	balance int64
}

// newAccount is only reachable through Ledger.CreateAccount, which validates
// the number and the initial balance.
func newAccount(number string, balance int64) *Account {
	return &Account{number: number, balance: balance}
}

// Number returns the account's fixed 5-character identifier.
func (a *Account) Number() string { return a.number }

// Balance returns the current balance in minor units.
func (a *Account) Balance() int64 { return a.balance }

// Deposit increases the balance by amount. It fails with ErrInvalidAmount
// for amounts <= 0 and never fails for positive amounts.
func (a *Account) Deposit(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("deposit %d: %w", amount, ErrInvalidAmount)
	}
	a.balance += amount
	return nil
}

// Withdraw decreases the balance by amount. It fails with ErrInvalidAmount
// for amounts <= 0 and with ErrInsufficientFunds when amount exceeds the
// balance; on failure the balance is unchanged.
func (a *Account) Withdraw(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("withdraw %d: %w", amount, ErrInvalidAmount)
	}
	if amount > a.balance {
		return fmt.Errorf("withdraw %d from balance %d: %w", amount, a.balance, ErrInsufficientFunds)
	}
	a.balance -= amount
	return nil
}
