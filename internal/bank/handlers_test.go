package bank

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finvault/bankcore/internal/auth"
	"github.com/finvault/bankcore/internal/ledger"
	"github.com/finvault/bankcore/internal/snapshot"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := snapshot.NewStore(filepath.Join(t.TempDir(), "bank_state.csv"), zap.NewNop())
	svc := NewService(ledger.New(), auth.NewService(zap.NewNop()), &captureRecorder{}, store, zap.NewNop())

	router := gin.New()
	Routes(router.Group("/v1"), svc, zap.NewNop())
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Created", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Alice", "password": "pass1"})
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	})

	t.Run("Duplicate", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Alice", "password": "pass2"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("MissingFields", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Bob"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Alice", "password": "pass1"}).Code)

	w := doJSON(t, router, http.MethodPost, "/v1/users/login", gin.H{"username": "Alice", "password": "pass1"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/v1/users/login", gin.H{"username": "Alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccountEndpoints(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Alice", "password": "pass1"}).Code)

	t.Run("Create", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/users/Alice/accounts",
			gin.H{"account_number": "12345", "initial_balance": 1000})
		assert.Equal(t, http.StatusCreated, w.Code)

		var view AccountView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, AccountView{AccountNumber: "12345", Balance: 1000}, view)
	})

	t.Run("BadAccountNumber", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/users/Alice/accounts",
			gin.H{"account_number": "123", "initial_balance": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/users/Nobody/accounts",
			gin.H{"account_number": "55555", "initial_balance": 0})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("List", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/v1/users/Alice/accounts", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Accounts []AccountView `json:"accounts"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []AccountView{{AccountNumber: "12345", Balance: 1000}}, resp.Accounts)
	})
}

func TestMoneyEndpoints(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Alice", "password": "pass1"}).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users/Alice/accounts", gin.H{"account_number": "12345", "initial_balance": 1000}).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Bob", "password": "pass2"}).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users/Bob/accounts", gin.H{"account_number": "67890", "initial_balance": 0}).Code)

	t.Run("Deposit", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/accounts/deposit",
			gin.H{"username": "Alice", "account_number": "12345", "amount": 500})
		assert.Equal(t, http.StatusOK, w.Code)

		var view AccountView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, int64(1500), view.Balance)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/accounts/deposit",
			gin.H{"username": "Alice", "account_number": "12345", "amount": -5})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Withdraw", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/accounts/withdraw",
			gin.H{"username": "Alice", "account_number": "12345", "amount": 200})
		assert.Equal(t, http.StatusOK, w.Code)

		var view AccountView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, int64(1300), view.Balance)
	})

	t.Run("InsufficientFunds", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/accounts/withdraw",
			gin.H{"username": "Bob", "account_number": "67890", "amount": 2000})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Transfer", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/transfers", gin.H{
			"from_username":       "Alice",
			"from_account_number": "12345",
			"to_username":         "Bob",
			"to_account_number":   "67890",
			"amount":              300,
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Accounts []AccountView `json:"accounts"`
		}
		w = doJSON(t, router, http.MethodGet, "/v1/users/Alice/accounts", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1000), resp.Accounts[0].Balance)

		w = doJSON(t, router, http.MethodGet, "/v1/users/Bob/accounts", nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(300), resp.Accounts[0].Balance)
	})

	t.Run("TransferUnknownAccount", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/v1/transfers", gin.H{
			"from_username":       "Alice",
			"from_account_number": "99999",
			"to_username":         "Bob",
			"to_account_number":   "67890",
			"amount":              10,
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSnapshotEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := snapshot.NewStore(filepath.Join(t.TempDir(), "bank_state.csv"), zap.NewNop())
	svc := NewService(ledger.New(), auth.NewService(zap.NewNop()), &captureRecorder{}, store, zap.NewNop())
	router := gin.New()
	Routes(router.Group("/v1"), svc, zap.NewNop())

	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users", gin.H{"username": "Alice", "password": "pass1"}).Code)
	require.Equal(t, http.StatusCreated,
		doJSON(t, router, http.MethodPost, "/v1/users/Alice/accounts", gin.H{"account_number": "12345", "initial_balance": 42}).Code)

	w := doJSON(t, router, http.MethodPost, "/v1/snapshot", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, store.Exists())
}
