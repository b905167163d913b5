package entities

import (
	"time"

	"github.com/google/uuid"
)

type StorageLocation string

const (
	LocationFridge  StorageLocation = "fridge"
	LocationFreezer StorageLocation = "freezer"
)

func (l StorageLocation) IsValid() bool {
	return l == LocationFridge || l == LocationFreezer
}

type FoodCategory string

const (
	CategoryDairy      FoodCategory = "dairy"
	CategoryVegetables FoodCategory = "vegetables"
	CategoryFruits     FoodCategory = "fruits"
	CategoryMeat       FoodCategory = "meat"
	CategoryFish       FoodCategory = "fish"
	CategoryFrozen     FoodCategory = "frozen"
	CategoryBeverages  FoodCategory = "beverages"
	CategoryGrains     FoodCategory = "grains"
	CategorySnacks     FoodCategory = "snacks"
	CategoryCondiments FoodCategory = "condiments"
	CategoryOther      FoodCategory = "other"
)

var FoodCategories = []FoodCategory{
	CategoryDairy, CategoryVegetables, CategoryFruits, CategoryMeat,
	CategoryFish, CategoryFrozen, CategoryBeverages, CategoryGrains,
	CategorySnacks, CategoryCondiments, CategoryOther,
}

func (c FoodCategory) IsValid() bool {
	for _, valid := range FoodCategories {
		if c == valid {
			return true
		}
	}
	return false
}

type FoodItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID     uuid.UUID       `gorm:"index" json:"user_id"`
	Name       string          `json:"name"`
	Location   StorageLocation `gorm:"type:varchar(16);index" json:"location"`
	Category   FoodCategory    `gorm:"type:varchar(16)" json:"category"`
	EntryDate  time.Time       `gorm:"type:date" json:"entry_date"`
	EntryTime  string          `json:"entry_time,omitempty"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	PhotoURL   string          `json:"photo_url,omitempty"`
	FinishedAt *time.Time      `gorm:"index" json:"finished_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

// IsFinished reports whether the item has been marked consumed or discarded.
// The presence of FinishedAt is the sole discriminator of the two states.
func (f *FoodItem) IsFinished() bool {
	return f.FinishedAt != nil
}

func (f *FoodItem) IsActive() bool {
	return f.FinishedAt == nil
}
