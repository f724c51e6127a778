package handlers

import "github.com/roomledger/roomledger-backend/services"

// Services contains all service dependencies for the handlers
type Services struct {
	Roommates *services.RoommateService
	Expenses  *services.ExpenseService
	Payments  *services.PaymentService
	Export    *services.ExportService
}

var svc *Services

// Init wires the handler package to its services
func Init(s *Services) {
	svc = s
}
