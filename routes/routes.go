package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/roomledger/roomledger-backend/handlers"
	"github.com/roomledger/roomledger-backend/repository"
	"github.com/roomledger/roomledger-backend/services"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine) {
	db := repository.GetDB()
	roommateRepo := repository.NewRoommateRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	balanceService := services.NewBalanceService(roommateRepo)

	handlers.Init(&handlers.Services{
		Roommates: services.NewRoommateService(roommateRepo),
		Expenses:  services.NewExpenseService(roommateRepo, expenseRepo, balanceService),
		Payments:  services.NewPaymentService(roommateRepo, expenseRepo, paymentRepo, balanceService),
		Export:    services.NewExportService(roommateRepo, expenseRepo, paymentRepo),
	})

	v1 := router.Group("/api/v1")
	{
		// Roommate endpoints
		v1.POST("/roommates/create", handlers.CreateRoommate)
		v1.POST("/roommates/get", handlers.GetRoommate)
		v1.POST("/roommates/list", handlers.ListRoommates)

		// Expense endpoints
		v1.POST("/expenses/addSimple", handlers.AddSimpleExpense)
		v1.POST("/expenses/addItemized", handlers.AddItemizedExpense)
		v1.POST("/expenses/updateSimple", handlers.UpdateSimpleExpense)
		v1.POST("/expenses/updateItemized", handlers.UpdateItemizedExpense)
		v1.POST("/expenses/remove", handlers.RemoveExpense)
		v1.POST("/expenses/get", handlers.GetExpense)
		v1.POST("/expenses/list", handlers.ListExpenses)

		// Payment endpoints
		v1.POST("/payments/create", handlers.CreatePayment)
		v1.POST("/payments/remove", handlers.RemovePayment)
		v1.POST("/payments/get", handlers.GetPayment)
		v1.POST("/payments/list", handlers.ListPayments)

		// Report export endpoint
		v1.POST("/reports/export", handlers.ExportHousehold)
	}
}
