package bank

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finvault/bankcore/internal/audit"
	"github.com/finvault/bankcore/internal/auth"
	"github.com/finvault/bankcore/internal/ledger"
	"github.com/finvault/bankcore/internal/snapshot"
)

// Handler provides HTTP handlers for the banking operations.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new bank handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type createAccountRequest struct {
	AccountNumber  string `json:"account_number" binding:"required"`
	InitialBalance int64  `json:"initial_balance"`
}

type amountRequest struct {
	Username      string `json:"username" binding:"required"`
	AccountNumber string `json:"account_number" binding:"required"`
	Amount        int64  `json:"amount"`
}

type transferRequest struct {
	FromUsername      string `json:"from_username" binding:"required"`
	FromAccountNumber string `json:"from_account_number" binding:"required"`
	ToUsername        string `json:"to_username" binding:"required"`
	ToAccountNumber   string `json:"to_account_number" binding:"required"`
	Amount            int64  `json:"amount"`
}

// RegisterHandler registers a new user.
func (h *Handler) RegisterHandler(c *gin.Context) {
	logger := h.requestLogger(c, "register")

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.service.Register(req.Username, req.Password); err != nil {
		logger.Warn("Registration failed", zap.String("username", req.Username), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"username": req.Username})
}

// LoginHandler verifies a user's credentials.
func (h *Handler) LoginHandler(c *gin.Context) {
	logger := h.requestLogger(c, "login")

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if !h.service.Login(req.Username, req.Password) {
		logger.Warn("Login rejected", zap.String("username", req.Username))
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "INVALID_CREDENTIALS",
			"message": "Invalid username or password",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": req.Username})
}

// CreateAccountHandler opens an account for the user in the path.
func (h *Handler) CreateAccountHandler(c *gin.Context) {
	logger := h.requestLogger(c, "create_account")
	username := c.Param("username")

	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.service.CreateAccount(username, req.AccountNumber, req.InitialBalance)
	if err != nil {
		logger.Warn("Account creation failed", zap.String("username", username), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// ListAccountsHandler lists the user's accounts.
func (h *Handler) ListAccountsHandler(c *gin.Context) {
	logger := h.requestLogger(c, "list_accounts")
	username := c.Param("username")

	views, err := h.service.Accounts(username)
	if err != nil {
		logger.Warn("Account listing failed", zap.String("username", username), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": views})
}

// DepositHandler deposits into an account.
func (h *Handler) DepositHandler(c *gin.Context) {
	logger := h.requestLogger(c, "deposit")

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.service.Deposit(req.Username, req.AccountNumber, req.Amount)
	if err != nil {
		logger.Warn("Deposit failed", zap.String("username", req.Username), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// WithdrawHandler withdraws from an account.
func (h *Handler) WithdrawHandler(c *gin.Context) {
	logger := h.requestLogger(c, "withdraw")

	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.service.Withdraw(req.Username, req.AccountNumber, req.Amount)
	if err != nil {
		logger.Warn("Withdrawal failed", zap.String("username", req.Username), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// TransferHandler moves funds between two accounts.
func (h *Handler) TransferHandler(c *gin.Context) {
	logger := h.requestLogger(c, "transfer")

	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	err := h.service.Transfer(req.FromUsername, req.FromAccountNumber, req.ToUsername, req.ToAccountNumber, req.Amount)
	if err != nil {
		logger.Warn("Transfer failed",
			zap.String("from", req.FromUsername),
			zap.String("to", req.ToUsername),
			zap.Error(err),
		)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "transferred", "amount": req.Amount})
}

// SnapshotHandler flushes the ledger state to the snapshot file.
func (h *Handler) SnapshotHandler(c *gin.Context) {
	logger := h.requestLogger(c, "snapshot")

	if err := h.service.Snapshot(); err != nil {
		logger.Error("Snapshot failed", zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// HealthHandler reports liveness.
func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLogger derives a per-request logger carrying a trace ID, echoing
// the ID back on the response.
func (h *Handler) requestLogger(c *gin.Context, endpoint string) *zap.Logger {
	traceID := c.GetHeader("X-Trace-ID")
	if traceID == "" {
		traceID = uuid.New().String()
	}
	c.Header("X-Trace-ID", traceID)
	return h.logger.With(
		zap.String("trace_id", traceID),
		zap.String("endpoint", endpoint),
		zap.String("client_ip", c.ClientIP()),
	)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "INVALID_REQUEST",
		"message": "Invalid request format",
		"details": err.Error(),
	})
}

// writeError maps domain error kinds to HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidAccountNumber),
		errors.Is(err, auth.ErrEmptyCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_INPUT", "message": err.Error()})
	case errors.Is(err, ledger.ErrUserNotFound),
		errors.Is(err, ledger.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND", "message": err.Error()})
	case errors.Is(err, ledger.ErrDuplicateUser),
		errors.Is(err, auth.ErrDuplicateUser):
		c.JSON(http.StatusConflict, gin.H{"error": "DUPLICATE_USER", "message": err.Error()})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusConflict, gin.H{"error": "INSUFFICIENT_FUNDS", "message": err.Error()})
	case errors.Is(err, audit.ErrPersistence),
		errors.Is(err, snapshot.ErrPersistence),
		errors.Is(err, snapshot.ErrMalformedRecord):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "PERSISTENCE_FAILED", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL_ERROR", "message": err.Error()})
	}
}
