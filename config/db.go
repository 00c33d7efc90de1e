package config

import (
	"errors"
	"fmt"
	"orphancare/domain"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GetDatabaseURL builds the database connection string.
func GetDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432"), os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"), os.Getenv("DB_DATABASE"))
	return dsn
}

// BootDB opens the process-wide database handle.
func BootDB() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(GetDatabaseURL()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	GetLogrusInstance().Info("DB initialized")
	return db, nil
}

func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates the tables and the index backing the one-active-request
// rule for a (user, child) pair. It works on both postgres and sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return fmt.Errorf("failed to migrate base tables: %w", err)
	}

	if err := db.AutoMigrate(
		&domain.Child{},
		&domain.AdoptionRequest{},
		&domain.Donation{},
	); err != nil {
		return fmt.Errorf("failed to migrate relational tables: %w", err)
	}

	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_adoption_active_pair
		ON adoption_requests (user_id, child_id)
		WHERE status IN ('pending', 'approved')`).Error; err != nil {
		return fmt.Errorf("failed to create active request index: %w", err)
	}

	return nil
}

// SeedAdmin creates the default admin account when no admin exists yet.
func SeedAdmin(db *gorm.DB, seed AdminSeed) error {
	log := GetLogrusInstance()

	var existingAdmin domain.User
	err := db.Where("role = ?", domain.RoleAdmin).First(&existingAdmin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("could not look up admin: %w", err)
	}

	if seed.Password == "" {
		log.Warn("ADMIN_PASSWORD is not set, skipping default admin")
		return nil
	}

	log.Info("Creating default admin account....")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}

	admin := domain.User{
		ID:         uuid.NewString(),
		Name:       seed.Name,
		Email:      seed.Email,
		Password:   string(hashedPassword),
		Role:       domain.RoleAdmin,
		IsVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.WithField("email", admin.Email).Info("Admin account created")
	return nil
}
