// handlers/expense_handlers.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// AddSimpleExpense registers a flat-split expense
func AddSimpleExpense(c *gin.Context) {
	var request models.SimpleExpenseRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	expense, err := svc.Expenses.CreateSimple(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.NewExpenseResponse(expense))
}

// AddItemizedExpense registers an item-level expense
func AddItemizedExpense(c *gin.Context) {
	var request models.DetailedExpenseRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	expense, err := svc.Expenses.CreateDetailed(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.NewExpenseResponse(expense))
}

// UpdateSimpleExpense replaces a stored expense with a new simple draft
func UpdateSimpleExpense(c *gin.Context) {
	var request models.UpdateSimpleExpenseRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	expense, err := svc.Expenses.UpdateSimple(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.NewExpenseResponse(expense))
}

// UpdateItemizedExpense replaces a stored expense with a new itemized draft
func UpdateItemizedExpense(c *gin.Context) {
	var request models.UpdateDetailedExpenseRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	expense, err := svc.Expenses.UpdateDetailed(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, models.NewExpenseResponse(expense))
}

// RemoveExpense deletes an expense with no recorded payments
func RemoveExpense(c *gin.Context) {
	var request models.IDRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	if err := svc.Expenses.Delete(request.ID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, true)
}

// GetExpense returns one expense with its derived status
func GetExpense(c *gin.Context) {
	var request models.IDRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	response, err := svc.Expenses.Get(request.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, response)
}

// ListExpenses returns all expenses with derived statuses
func ListExpenses(c *gin.Context) {
	responses, err := svc.Expenses.List()
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, responses)
}
