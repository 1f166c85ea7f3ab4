package database

import (
	"fmt"

	"feedback-go/internal/config"
	logging "feedback-go/internal/logging"
	"feedback-go/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres and brings the schema up to date.
func Open(dbConf config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	return OpenDSN(dbConf.DSN(), dbConf, log)
}

// OpenDSN is Open with an explicit connection string, used by tests.
func OpenDSN(dsn string, dbConf config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log, dbConf.SlowThreshold)
	gormLogger.LogLevel = logger.Info

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("Database connection established successfully.")
	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates tables, columns and the indexes AutoMigrate cannot express.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	err := db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.Invitation{},
		&models.Survey{},
		&models.Question{},
		&models.Answer{},
	)
	if err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	log.Info("Database migrations completed successfully.")

	answersIndex := `CREATE INDEX IF NOT EXISTS idx_answers_question_created ON answers (question_id, created_at DESC);`
	if err := db.Exec(answersIndex).Error; err != nil {
		return fmt.Errorf("failed to create custom index on answers table: %w", err)
	}
	log.Info("Custom indexes ensured successfully.")
	return nil
}
