// Package testutil opens throwaway sqlite databases with the service schema.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/equipment-rental/internal/db"
	"github.com/BruksfildServices01/equipment-rental/internal/models"
)

const Password = "secret123"

// OpenDB uses a file database with a single connection so transactions
// serialize the same way row locks do on Postgres.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rental.db")
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := dbpkg.Migrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	u := &models.User{
		Name:         username + " name",
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func CreateCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	c := &models.Category{Name: name}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func CreateEquipment(t *testing.T, db *gorm.DB, name string, stock int, rate int64) *models.Equipment {
	t.Helper()

	status := "available"
	if stock == 0 {
		status = "on_loan"
	}
	e := &models.Equipment{
		Name:      name,
		Condition: "good",
		Status:    status,
		Stock:     stock,
		DailyRate: rate,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("create equipment: %v", err)
	}
	return e
}

func CreateLoan(t *testing.T, db *gorm.DB, userID, equipmentID uint, qty int, status string, loanDate, planned time.Time) *models.Loan {
	t.Helper()

	l := &models.Loan{
		UserID:            userID,
		EquipmentID:       equipmentID,
		Quantity:          qty,
		LoanDate:          loanDate,
		PlannedReturnDate: planned,
		Status:            status,
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("create loan: %v", err)
	}
	return l
}

// Date is a midnight UTC calendar date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ReloadEquipment(t *testing.T, db *gorm.DB, id uint) *models.Equipment {
	t.Helper()

	var e models.Equipment
	if err := db.First(&e, id).Error; err != nil {
		t.Fatalf("reload equipment: %v", err)
	}
	return &e
}

func ReloadLoan(t *testing.T, db *gorm.DB, id uint) *models.Loan {
	t.Helper()

	var l models.Loan
	if err := db.First(&l, id).Error; err != nil {
		t.Fatalf("reload loan: %v", err)
	}
	return &l
}
