package food

import (
	"KeepFresh-Backend/domain"
	"KeepFresh-Backend/entities"
	"KeepFresh-Backend/internal/utils/storage"
	"KeepFresh-Backend/pkg/clock"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RetentionWindow is how long a finished item stays visible before the next
// finished-list query purges it for good.
const RetentionWindow = 24 * time.Hour

type (
	FoodService interface {
		AddFoodItem(ctx context.Context, req domain.AddFoodItemRequest, userID string) (domain.FoodItemResponse, error)
		MarkFinished(ctx context.Context, id string, userID string) error
		RestoreFoodItem(ctx context.Context, id string, userID string) error
		DeleteFoodItem(ctx context.Context, id string, userID string) error
		ListActive(ctx context.Context, userID string, location string) ([]domain.FoodItemResponse, error)
		ListAllActive(ctx context.Context, userID string) ([]domain.FoodItemResponse, error)
		ListFinished(ctx context.Context, userID string) ([]domain.FoodItemResponse, error)
		SweepFinished(ctx context.Context, userID string, now time.Time) (int64, error)
		GetExpiringSummary(ctx context.Context, userID string) (domain.ExpiringSummaryResponse, error)
		UploadItemPhoto(ctx context.Context, req domain.UploadItemPhotoRequest, userID string) error
	}

	foodService struct {
		foodRepository FoodRepository
		s3             storage.AwsS3
		clock          clock.Clock
	}
)

func NewFoodService(foodRepository FoodRepository, s3 storage.AwsS3, clk clock.Clock) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		s3:             s3,
		clock:          clk,
	}
}

func (s *foodService) AddFoodItem(ctx context.Context, req domain.AddFoodItemRequest, userID string) (domain.FoodItemResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.FoodItemResponse{}, domain.ErrEmptyName
	}

	location := entities.StorageLocation(req.Location)
	if !location.IsValid() {
		return domain.FoodItemResponse{}, domain.ErrInvalidLocation
	}

	category := entities.CategoryOther
	if req.Category != "" {
		category = entities.FoodCategory(req.Category)
		if !category.IsValid() {
			return domain.FoodItemResponse{}, domain.ErrInvalidCategory
		}
	}

	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrInvalidEntryDate
	}

	var expiryDate *time.Time
	if req.ExpiryDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			return domain.FoodItemResponse{}, domain.ErrInvalidExpiryDate
		}
		expiryDate = &parsed
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.FoodItemResponse{}, domain.ErrParseUUID
	}

	foodItem := &entities.FoodItem{
		ID:         uuid.New(),
		UserID:     userUUID,
		Name:       req.Name,
		Location:   location,
		Category:   category,
		EntryDate:  entryDate,
		EntryTime:  req.EntryTime,
		ExpiryDate: expiryDate,
		Notes:      req.Notes,
	}

	if err := s.foodRepository.AddFoodItem(ctx, foodItem); err != nil {
		return domain.FoodItemResponse{}, persistenceErr("add food item", err)
	}

	return s.toResponse(foodItem), nil
}

// MarkFinished stamps the item with the current time. Already-finished items
// get their timestamp overwritten, which restarts the retention window.
func (s *foodService) MarkFinished(ctx context.Context, id string, userID string) error {
	now := s.clock.Now()
	affected, err := s.foodRepository.SetFinishedAt(ctx, id, userID, &now)
	if err != nil {
		return persistenceErr("mark finished", err)
	}
	if affected == 0 {
		return domain.ErrFoodItemNotFound
	}
	return nil
}

// RestoreFoodItem clears the finished timestamp. Restoring an already-active
// item is a no-op rather than an error.
func (s *foodService) RestoreFoodItem(ctx context.Context, id string, userID string) error {
	affected, err := s.foodRepository.SetFinishedAt(ctx, id, userID, nil)
	if err != nil {
		return persistenceErr("restore food item", err)
	}
	if affected == 0 {
		return domain.ErrFoodItemNotFound
	}
	return nil
}

func (s *foodService) DeleteFoodItem(ctx context.Context, id string, userID string) error {
	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return persistenceErr("delete food item", err)
	}

	affected, err := s.foodRepository.DeleteFoodItem(ctx, id, userID)
	if err != nil {
		return persistenceErr("delete food item", err)
	}
	if affected == 0 {
		return domain.ErrFoodItemNotFound
	}

	if foodItem != nil && foodItem.PhotoURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(foodItem.PhotoURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}

	return nil
}

func (s *foodService) ListActive(ctx context.Context, userID string, location string) ([]domain.FoodItemResponse, error) {
	loc := entities.StorageLocation(location)
	if !loc.IsValid() {
		return nil, domain.ErrInvalidLocation
	}

	foodItems, err := s.foodRepository.GetActiveItems(ctx, userID, &loc)
	if err != nil {
		return nil, persistenceErr("list active items", err)
	}

	return s.toResponses(foodItems), nil
}

func (s *foodService) ListAllActive(ctx context.Context, userID string) ([]domain.FoodItemResponse, error) {
	foodItems, err := s.foodRepository.GetActiveItems(ctx, userID, nil)
	if err != nil {
		return nil, persistenceErr("list active items", err)
	}

	return s.toResponses(foodItems), nil
}

// ListFinished sweeps the retention window before reading, so a finished item
// older than RetentionWindow never reaches a caller.
func (s *foodService) ListFinished(ctx context.Context, userID string) ([]domain.FoodItemResponse, error) {
	if _, err := s.SweepFinished(ctx, userID, s.clock.Now()); err != nil {
		return nil, err
	}

	foodItems, err := s.foodRepository.GetFinishedItems(ctx, userID)
	if err != nil {
		return nil, persistenceErr("list finished items", err)
	}

	return s.toResponses(foodItems), nil
}

// SweepFinished permanently removes finished items whose finished_at is
// strictly older than the retention window relative to now.
func (s *foodService) SweepFinished(ctx context.Context, userID string, now time.Time) (int64, error) {
	removed, err := s.foodRepository.DeleteFinishedBefore(ctx, userID, now.Add(-RetentionWindow))
	if err != nil {
		return 0, persistenceErr("sweep finished items", err)
	}
	return removed, nil
}

// GetExpiringSummary counts active items classified warning or expired, per
// location and overall. Derived on every call; nothing is cached or stored.
func (s *foodService) GetExpiringSummary(ctx context.Context, userID string) (domain.ExpiringSummaryResponse, error) {
	foodItems, err := s.foodRepository.GetActiveItems(ctx, userID, nil)
	if err != nil {
		return domain.ExpiringSummaryResponse{}, persistenceErr("expiring summary", err)
	}

	now := s.clock.Now()
	var summary domain.ExpiringSummaryResponse
	for _, item := range foodItems {
		status := StatusOf(item.ExpiryDate, now)
		if status != StatusWarning && status != StatusExpired {
			continue
		}
		summary.Total++
		switch item.Location {
		case entities.LocationFridge:
			summary.Fridge++
		case entities.LocationFreezer:
			summary.Freezer++
		}
	}

	return summary, nil
}

func (s *foodService) UploadItemPhoto(ctx context.Context, req domain.UploadItemPhotoRequest, userID string) error {
	foodItem, err := s.foodRepository.GetFoodItemByID(ctx, req.FoodItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrFoodItemNotFound
		}
		return persistenceErr("upload item photo", err)
	}

	if foodItem.UserID.String() != userID {
		return domain.ErrFoodItemNotFound
	}

	fileName := fmt.Sprintf("food-item-%s", foodItem.ID.String())
	var objectKey string
	var uploadErr error

	if foodItem.PhotoURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(foodItem.PhotoURL)
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(existingKey, req.Photo, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(fileName, req.Photo, "food-items", storage.AllowImage...)
		}
	} else {
		objectKey, uploadErr = s.s3.UploadFile(fileName, req.Photo, "food-items", storage.AllowImage...)
	}

	if uploadErr != nil {
		return uploadErr
	}

	foodItem.PhotoURL = s.s3.GetPublicLinkKey(objectKey)

	if err := s.foodRepository.UpdateFoodItem(ctx, foodItem); err != nil {
		return persistenceErr("upload item photo", err)
	}
	return nil
}

func (s *foodService) toResponses(foodItems []*entities.FoodItem) []domain.FoodItemResponse {
	responses := make([]domain.FoodItemResponse, 0, len(foodItems))
	for _, item := range foodItems {
		responses = append(responses, s.toResponse(item))
	}
	return responses
}

func (s *foodService) toResponse(item *entities.FoodItem) domain.FoodItemResponse {
	now := s.clock.Now()
	return domain.FoodItemResponse{
		ID:         item.ID.String(),
		Name:       item.Name,
		Location:   string(item.Location),
		Category:   string(item.Category),
		EntryDate:  item.EntryDate.Format("2006-01-02"),
		EntryTime:  item.EntryTime,
		ExpiryDate: item.ExpiryDate,
		Notes:      item.Notes,
		PhotoURL:   item.PhotoURL,
		FinishedAt: item.FinishedAt,
		Status:     string(StatusOf(item.ExpiryDate, now)),
		DaysLeft:   DaysLeft(item.ExpiryDate, now),
		CreatedAt:  item.CreatedAt,
	}
}

func persistenceErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrPersistence, op, err)
}
