// handlers/roommate_handlers.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// CreateRoommate registers a new household member
func CreateRoommate(c *gin.Context) {
	var request models.CreateRoommateRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	roommate, err := svc.Roommates.Create(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, roommate)
}

// GetRoommate returns one roommate with their current balance
func GetRoommate(c *gin.Context) {
	var request models.IDRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	roommate, err := svc.Roommates.Get(request.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, roommate)
}

// ListRoommates returns all roommates with balances
func ListRoommates(c *gin.Context) {
	roommates, err := svc.Roommates.List()
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, roommates)
}
