// handlers/payment_handlers.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// CreatePayment registers a payment settling one payer's share of the
// referenced expenses
func CreatePayment(c *gin.Context) {
	var request models.PaymentRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	payment, err := svc.Payments.Create(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payment)
}

// RemovePayment deletes a payment, reversing its ledger and expense effects
func RemovePayment(c *gin.Context) {
	var request models.IDRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := svc.Payments.Delete(request.ID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, true)
}

// GetPayment returns one payment
func GetPayment(c *gin.Context) {
	var request models.IDRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	payment, err := svc.Payments.Get(request.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payment)
}

// ListPayments returns all payments
func ListPayments(c *gin.Context) {
	payments, err := svc.Payments.List()
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, payments)
}
