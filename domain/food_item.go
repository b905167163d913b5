package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessAddFoodItem        = "food item added successfully"
	MessageSuccessMarkFinished       = "food item marked as finished"
	MessageSuccessRestoreFoodItem    = "food item restored"
	MessageSuccessDeleteFoodItem     = "food item deleted successfully"
	MessageSuccessGetFoodItems       = "food items retrieved successfully"
	MessageSuccessGetFinishedItems   = "finished items retrieved successfully"
	MessageSuccessGetExpiringSummary = "expiring summary retrieved successfully"
	MessageSuccessUploadItemPhoto    = "item photo uploaded successfully"

	MessageFailedAddFoodItem        = "failed to add food item"
	MessageFailedMarkFinished       = "failed to mark food item as finished"
	MessageFailedRestoreFoodItem    = "failed to restore food item"
	MessageFailedDeleteFoodItem     = "failed to delete food item"
	MessageFailedGetFoodItems       = "failed to retrieve food items"
	MessageFailedGetFinishedItems   = "failed to retrieve finished items"
	MessageFailedGetExpiringSummary = "failed to retrieve expiring summary"
	MessageFailedUploadItemPhoto    = "failed to upload item photo"

	ErrFoodItemNotFound  = errors.New("food item not found")
	ErrEmptyName         = errors.New("name must not be empty")
	ErrInvalidLocation   = errors.New("invalid storage location")
	ErrInvalidCategory   = errors.New("invalid food category")
	ErrInvalidEntryDate  = errors.New("invalid entry date")
	ErrInvalidExpiryDate = errors.New("invalid expiry date")
)

type (
	AddFoodItemRequest struct {
		Name       string `json:"name" validate:"required"`
		Location   string `json:"location" validate:"required"`
		Category   string `json:"category" validate:"omitempty"`
		EntryDate  string `json:"entry_date" validate:"required"`
		EntryTime  string `json:"entry_time" validate:"omitempty"`
		ExpiryDate string `json:"expiry_date" validate:"omitempty"`
		Notes      string `json:"notes" validate:"omitempty"`
	}

	FoodItemResponse struct {
		ID         string     `json:"id"`
		Name       string     `json:"name"`
		Location   string     `json:"location"`
		Category   string     `json:"category"`
		EntryDate  string     `json:"entry_date"`
		EntryTime  string     `json:"entry_time,omitempty"`
		ExpiryDate *time.Time `json:"expiry_date,omitempty"`
		Notes      string     `json:"notes,omitempty"`
		PhotoURL   string     `json:"photo_url,omitempty"`
		FinishedAt *time.Time `json:"finished_at,omitempty"`
		Status     string     `json:"status"`
		DaysLeft   *int       `json:"days_left,omitempty"`
		CreatedAt  time.Time  `json:"created_at"`
	}

	UploadItemPhotoRequest struct {
		FoodItemID string                `json:"food_id" form:"food_id" validate:"required,uuid"`
		Photo      *multipart.FileHeader `json:"photo" form:"photo" validate:"required"`
	}

	ExpiringSummaryResponse struct {
		Fridge  int `json:"fridge"`
		Freezer int `json:"freezer"`
		Total   int `json:"total"`
	}
)
