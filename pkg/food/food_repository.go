package food

import (
	"KeepFresh-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	FoodRepository interface {
		AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error
		GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error)
		UpdateFoodItem(ctx context.Context, foodItem *entities.FoodItem) error
		SetFinishedAt(ctx context.Context, id string, userID string, finishedAt *time.Time) (int64, error)
		DeleteFoodItem(ctx context.Context, id string, userID string) (int64, error)
		GetActiveItems(ctx context.Context, userID string, location *entities.StorageLocation) ([]*entities.FoodItem, error)
		GetFinishedItems(ctx context.Context, userID string) ([]*entities.FoodItem, error)
		DeleteFinishedBefore(ctx context.Context, userID string, cutoff time.Time) (int64, error)
	}

	foodRepository struct {
		db *gorm.DB
	}
)

func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) AddFoodItem(ctx context.Context, foodItem *entities.FoodItem) error {
	return r.db.WithContext(ctx).Create(foodItem).Error
}

func (r *foodRepository) GetFoodItemByID(ctx context.Context, id string) (*entities.FoodItem, error) {
	var foodItem entities.FoodItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&foodItem).Error; err != nil {
		return nil, err
	}
	return &foodItem, nil
}

func (r *foodRepository) UpdateFoodItem(ctx context.Context, foodItem *entities.FoodItem) error {
	return r.db.WithContext(ctx).Save(foodItem).Error
}

// SetFinishedAt flips the active/finished state in a single owner-scoped
// UPDATE so concurrent transitions on the same row serialize at the database.
// The returned count is 0 when the row does not exist or belongs to another
// user.
func (r *foodRepository) SetFinishedAt(ctx context.Context, id string, userID string, finishedAt *time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&entities.FoodItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("finished_at", finishedAt)
	return result.RowsAffected, result.Error
}

func (r *foodRepository) DeleteFoodItem(ctx context.Context, id string, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.FoodItem{})
	return result.RowsAffected, result.Error
}

func (r *foodRepository) GetActiveItems(ctx context.Context, userID string, location *entities.StorageLocation) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	query := r.db.WithContext(ctx).
		Where("user_id = ? AND finished_at IS NULL", userID)
	if location != nil {
		query = query.Where("location = ?", *location)
	}

	if err := query.
		Order("expiry_date ASC NULLS LAST, created_at ASC").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *foodRepository) GetFinishedItems(ctx context.Context, userID string) ([]*entities.FoodItem, error) {
	var foodItems []*entities.FoodItem

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND finished_at IS NOT NULL", userID).
		Order("created_at DESC").
		Find(&foodItems).Error; err != nil {
		return nil, err
	}

	return foodItems, nil
}

func (r *foodRepository) DeleteFinishedBefore(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND finished_at IS NOT NULL AND finished_at < ?", userID, cutoff).
		Delete(&entities.FoodItem{})
	return result.RowsAffected, result.Error
}
