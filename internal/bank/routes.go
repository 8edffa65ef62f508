package bank

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Routes configures all banking routes on the given router group.
func Routes(router *gin.RouterGroup, service *Service, logger *zap.Logger) {
	handler := NewHandler(service, logger)

	router.GET("/health", handler.HealthHandler)

	users := router.Group("/users")
	{
		users.POST("", handler.RegisterHandler)
		users.POST("/login", handler.LoginHandler)
		users.POST("/:username/accounts", handler.CreateAccountHandler)
		users.GET("/:username/accounts", handler.ListAccountsHandler)
	}

	accounts := router.Group("/accounts")
	{
		accounts.POST("/deposit", handler.DepositHandler)
		accounts.POST("/withdraw", handler.WithdrawHandler)
	}

	router.POST("/transfers", handler.TransferHandler)
	router.POST("/snapshot", handler.SnapshotHandler)
}
