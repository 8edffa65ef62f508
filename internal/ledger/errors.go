package ledger

import "errors"

// Domain errors returned by ledger operations. Callers branch on these with
// errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrInvalidInput indicates an empty username or credential.
	ErrInvalidInput = errors.New("username and credential must not be empty")

	// ErrInvalidAmount indicates a non-positive operation amount or a
	// negative initial balance.
	ErrInvalidAmount = errors.New("amount must be greater than 0")

	// ErrInsufficientFunds indicates a withdrawal larger than the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAccountNumber indicates an account number that is not
	// exactly 5 characters.
	ErrInvalidAccountNumber = errors.New("account number must be a 5-character string")

	// ErrDuplicateUser indicates the username is already registered.
	ErrDuplicateUser = errors.New("username already exists")

	// ErrUserNotFound indicates the user is not registered in this ledger.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound indicates the account is not owned by the given user.
	ErrAccountNotFound = errors.New("account not found")
)
