package database

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskman/internal/config"
	"taskman/internal/models"
)

var DB *gorm.DB

// Connect opens the database selected by the configured driver.
func Connect(cfg *config.Config) error {
	dialector, err := buildDialector(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

func buildDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		return sqlite.Open(cfg.DBPath), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unknown database driver: %q", cfg.DBDriver)
	}
}

// Migrate creates or updates the schema.
func Migrate() error {
	log.Println("Running database migrations...")
	err := DB.AutoMigrate(
		&models.User{},
		&models.TaskStatus{},
		&models.Task{},
		&models.Tag{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// DefaultStatusNames are the statuses installed at first deploy.
var DefaultStatusNames = []string{"New", "Assigned", "Testing", "Done"}

// Seed inserts the default task statuses. Existing rows are kept.
func Seed(db *gorm.DB) error {
	for _, name := range DefaultStatusNames {
		status := models.TaskStatus{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&status).Error; err != nil {
			return fmt.Errorf("failed to seed status %q: %w", name, err)
		}
	}
	log.Println("Default task statuses seeded")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
