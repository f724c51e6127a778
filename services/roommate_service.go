package services

import (
	"time"

	"github.com/roomledger/roomledger-backend/models"
	"github.com/roomledger/roomledger-backend/utils"
)

// RoommateService handles household membership
type RoommateService struct {
	roommates RoommateStore
}

// NewRoommateService creates a new roommate service
func NewRoommateService(roommates RoommateStore) *RoommateService {
	return &RoommateService{roommates: roommates}
}

// Create registers a roommate with a zero starting balance
func (s *RoommateService) Create(req *models.CreateRoommateRequest) (*models.Roommate, error) {
	if err := utils.ValidateRequired(req.Name, "name"); err != nil {
		return nil, err
	}

	roommate := &models.Roommate{
		ID:        utils.GenerateID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Balance:   0,
		CreatedAt: time.Now(),
	}
	if err := s.roommates.Create(roommate); err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToStore)
	}
	return roommate, nil
}

// Get retrieves a roommate with their current balance
func (s *RoommateService) Get(id string) (*models.Roommate, error) {
	roommate, err := s.roommates.FindByID(id)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	if roommate == nil {
		return nil, utils.NewNotFoundError("Roommate")
	}
	return roommate, nil
}

// List retrieves all roommates
func (s *RoommateService) List() ([]*models.Roommate, error) {
	roommates, err := s.roommates.List()
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrFailedToRetrieve)
	}
	return roommates, nil
}
