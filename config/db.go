package config

import (
	"fmt"
	"log"

	"resto-pos/models"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB connects to the SQLite database of the reference API and migrates it.
func OpenDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Closed orders keep their line snapshots after a food is deleted
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RevokedToken{},
		&models.Table{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// SeedUser is a staff account created by Seed.
type SeedUser struct {
	Name     string
	Email    string
	Password string
	Role     models.UserRole
}

// DefaultStaff are the demo accounts of a fresh install
var DefaultStaff = []SeedUser{
	{Name: "Rina", Email: "waiter@resto.local", Password: "password", Role: models.RoleWaiter},
	{Name: "Budi", Email: "cashier@resto.local", Password: "password", Role: models.RoleCashier},
}

// Seed fills an empty database with staff, tables and a starter menu.
// Tables already present are left alone.
func Seed(db *gorm.DB, staff []SeedUser, tables int) error {
	for _, s := range staff {
		var n int64
		if err := db.Model(&models.User{}).Where("email = ?", s.Email).Count(&n).Error; err != nil {
			return fmt.Errorf("look up user %s: %w", s.Email, err)
		}
		if n > 0 {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(s.Password), bcrypt.MinCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", s.Email, err)
		}
		u := models.User{Name: s.Name, Email: s.Email, PasswordHash: string(hash), Role: s.Role}
		if err := db.Create(&u).Error; err != nil {
			return fmt.Errorf("create user %s: %w", s.Email, err)
		}
	}

	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count tables: %w", err)
	}
	if count == 0 {
		for i := 1; i <= tables; i++ {
			t := models.Table{TableNumber: fmt.Sprintf("T%d", i), Status: models.TableAvailable, Capacity: 4}
			if err := db.Create(&t).Error; err != nil {
				return fmt.Errorf("create table %d: %w", i, err)
			}
		}
	}

	if err := db.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count menu items: %w", err)
	}
	if count == 0 {
		menu := []models.MenuItem{
			{Name: "Burger", Description: "Beef patty, cheddar, pickles", Price: 8, Category: "Main Course", Available: true},
			{Name: "Caesar Salad", Description: "Romaine, parmesan, croutons", Price: 6.5, Category: "Salads", Available: true},
			{Name: "Spring Rolls", Description: "Vegetable spring rolls", Price: 4.25, Category: "Appetizers", Available: true},
			{Name: "Cola", Description: "Chilled can", Price: 2, Category: "Beverages", Available: true},
			{Name: "Brownie", Description: "Warm chocolate brownie", Price: 3.75, Category: "Desserts", Available: true},
		}
		if err := db.Create(&menu).Error; err != nil {
			return fmt.Errorf("create menu: %w", err)
		}
	}

	log.Println("✅ Database seeded")
	return nil
}
