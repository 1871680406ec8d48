package database

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"multibill-pos/internal/models"
)

// Connect opens the MySQL database from DB_DSN and syncs the schema. The
// handle is returned, not stashed in a package global: the ledger, the
// finalizer, and the handlers all receive it explicitly.
func Connect(log *logrus.Logger) (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN not set; configure your database in .env")
	}

	var db *gorm.DB
	var err error

	// Wait for the DB to be ready.
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Warnf("failed to connect to database, retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database after 5 attempts: %w", err)
	}

	log.Info("connected to MySQL")

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	log.Info("database schema synced")

	return db, nil
}

// Migrate syncs every model. Tests call this directly against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Godown{},
		&models.Customer{},
		&models.Item{},
		&models.Sale{},
		&models.SaleItem{},
		&models.StockMovement{},
	)
}
