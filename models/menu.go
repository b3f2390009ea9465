package models

import "time"

// MenuCategories is the fixed category list offered by menu management
var MenuCategories = []string{"Appetizers", "Main Course", "Desserts", "Beverages", "Salads"}

type MenuItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"index"`
	Image       string    `json:"image"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the menu under the /foods resource name
func (MenuItem) TableName() string { return "foods" }
