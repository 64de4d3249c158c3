package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aiground/linkdigest/internal/config"
)

// SummaryPending is the sentinel stored in Bookmark.Summary at creation.
// It survives until the background enrichment task commits a real summary;
// a failed enrichment never replaces it.
const SummaryPending = "요약 생성 중..."

type (
	UUIDModel struct {
		ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		UUIDModel
		Email     string `gorm:"unique;not null"`
		Password  string `gorm:"not null"`
		Token     string `gorm:"not null"`
		Bookmarks []Bookmark
	}

	Bookmark struct {
		UUIDModel
		Title      string         `gorm:"size:255;not null"`
		URL        string         `gorm:"type:text;not null"`
		Content    string         `gorm:"type:text"`
		Summary    string         `gorm:"type:text"`
		Category   string         `gorm:"size:100"`
		Tags       pq.StringArray `gorm:"type:text[]"`
		SourceName string         `gorm:"size:100"`
		ReadCount  int            `gorm:"not null;default:0"`
		IsPublic   bool           `gorm:"not null;default:false"`
		IsDeleted  bool           `gorm:"not null;default:false"`
		UserID     uuid.UUID      `gorm:"type:uuid;not null;index"`
		User       User
	}

	AuditLog struct {
		UUIDModel
		Level    string    `gorm:"size:20;not null"`
		Message  string    `gorm:"type:text;not null"`
		Source   string    `gorm:"size:50"`
		UserID   uuid.UUID `gorm:"type:uuid"`
		Metadata []byte    `gorm:"type:jsonb"`
	}
)

func (m *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func NewGormClient(cfg *config.Config) (*gorm.DB, error) {
	newLogger := logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Info,
		Colorful:                  true,
		IgnoreRecordNotFoundError: false,
	})

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, errors.Wrap(err, "migrate user")
	}
	if err := db.AutoMigrate(&Bookmark{}); err != nil {
		return nil, errors.Wrap(err, "migrate bookmark")
	}
	if err := db.AutoMigrate(&AuditLog{}); err != nil {
		return nil, errors.Wrap(err, "migrate audit log")
	}

	return db, nil
}
