// Package store provides storage backends for GearBot.
//
// It defines the persistence contract the flows consume and implements it
// for PostgreSQL and SQLite, with embedded SQL migrations.
package store

import (
	"strings"
	"time"

	"github.com/BTreeMap/GearBot/internal/models"
)

// Store is the persistence collaborator consumed by the conversation core.
//
// Single-row lookups return typed not-found errors from the models
// package; existence probes (GetSession, GetUserByChatID) return nil, nil
// when no row exists because absence is a normal outcome for them.
type Store interface {
	// Sessions, keyed by chat identity.
	GetSession(chatID int64) (*models.Session, error)
	SaveSession(s models.Session) error
	DeleteSession(chatID int64) error

	// Users.
	GetUserByChatID(chatID int64) (*models.User, error)
	GetActiveUserByPhone(phone string) (*models.User, error)
	BindUserChat(userID, chatID int64) error
	ListNotifiableUsers() ([]models.User, error)

	// PPE catalog.
	ListActivePickPoints() ([]models.PickPoint, error)
	ListActiveTypes() ([]models.PPEType, error)
	ListActiveModelsByType(typeID int64) ([]models.PPEModel, error)
	GetModelByID(id int64) (*models.PPEModel, error)
	SetModelFileID(modelID int64, fileID string) error

	// FAQ.
	ListFAQByPriority() ([]models.FAQEntry, error)
	GetFAQByID(id int64) (*models.FAQEntry, error)

	// Feedback records.
	AddRating(r models.Rating) error
	AddReview(r models.Review) error

	// Admin notices.
	AddNotice(text string, createdAt time.Time) (int64, error)
	ListUndeliveredNotices() ([]models.Notice, error)
	MarkNoticeDelivered(id int64, at time.Time) error

	Close() error
}

// Opts holds configuration options for store backends.
type Opts struct {
	DSN string
}

// Option defines a configuration option for a store backend.
type Option func(*Opts)

// WithPostgresDSN sets the PostgreSQL connection string.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// WithSQLiteDSN sets the SQLite database file path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// DetectDSNType classifies a DSN as "postgres" or "sqlite" so callers can
// pick a backend without a separate driver flag.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}
