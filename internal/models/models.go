// Package models defines the core data structures for GearBot.
//
// It includes domain entities (users, pickpoints, PPE catalog, FAQ,
// notices) and the feedback records the bot submits, shared across modules.
package models

import (
	"errors"
	"time"
)

// Validation constants for flow input.
const (
	// MinScore is the lowest accepted pickpoint rating score.
	MinScore = 1
	// MaxScore is the highest accepted pickpoint rating score.
	MaxScore = 5
	// CanonicalPhoneLength is the length of a canonical phone number ("+" plus 11 digits).
	CanonicalPhoneLength = 12
)

// Error variables for better error handling and testability.
var (
	// Session errors: a handler expected a variable or cached listing entry
	// that is absent or malformed. Recoverable by terminating the branch.
	ErrInvalidVariable = errors.New("session variable missing or malformed")
	ErrInvalidItems    = errors.New("cached listing missing or malformed")
	ErrItemNotFound    = errors.New("item not found in cached listing")

	// Not-found domain errors, surfaced as context-specific user messages.
	ErrInvalidModel     = errors.New("PPE model not found")
	ErrQuestionNotFound = errors.New("FAQ question not found")
	ErrUserNotExist     = errors.New("user does not exist")
	ErrNoticeNotFound   = errors.New("notice not found")

	// Save errors wrap a session error raised at the final commit step.
	ErrRatingSave = errors.New("failed to save pickpoint rating")
	ErrReviewSave = errors.New("failed to save model review")

	// ErrInvalidNotification aborts the fan-out of a single notice.
	ErrInvalidNotification = errors.New("notification delivery failed")
)

// IsSessionError reports whether err belongs to the recoverable session
// error class: the branch must be terminated and the user sent back to
// the main menu.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrInvalidVariable) ||
		errors.Is(err, ErrInvalidItems) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrRatingSave) ||
		errors.Is(err, ErrReviewSave)
}

// User is a field worker (or admin) registered in the PPE system.
// ChatID is nil until the user authorizes by sharing their contact.
type User struct {
	ID             int64     `json:"id"`
	ChatID         *int64    `json:"chat_id,omitempty"`
	PhoneNumber    string    `json:"phone_number"` // canonical 12-char form, e.g. "+78887776655"
	Active         bool      `json:"active"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

// PickPoint is a PPE distribution point that can be rated.
type PickPoint struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PPEType is a protective equipment category (helmets, gloves, ...).
type PPEType struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// PPEModel is a concrete catalog item within a PPEType.
// The long-text fields are optional and rendered one message each when set.
// FileID caches the transport file handle after the first photo upload.
type PPEModel struct {
	ID               int64  `json:"id"`
	TypeID           int64  `json:"type_id"`
	Name             string `json:"name"`
	ProtectProps     string `json:"protect_props,omitempty"`
	CareProcedure    string `json:"care_procedure,omitempty"`
	WriteoffCriteria string `json:"writeoff_criteria,omitempty"`
	OperatingRules   string `json:"operating_rules,omitempty"`
	FileID           string `json:"file_id,omitempty"`
	Active           bool   `json:"active"`
}

// FAQEntry is a question/answer pair ordered by an externally configured priority.
type FAQEntry struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Priority int    `json:"priority"`
	Active   bool   `json:"active"`
}

// Rating is the terminal artifact of a completed pickpoint rating flow.
type Rating struct {
	ID          int64     `json:"id"`
	PickPointID int64     `json:"pickpoint_id"`
	UserID      int64     `json:"user_id"`
	Score       int       `json:"score"` // 1..5
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

// Review is the terminal artifact of a completed PPE review flow.
type Review struct {
	ID        int64     `json:"id"`
	ModelID   int64     `json:"model_id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Notice is an admin-authored broadcast. DeliveredAt stays nil until a
// fan-out completes without a single delivery failure, which makes the
// periodic sweep retry it naturally.
type Notice struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	CreatedAt   time.Time  `json:"created_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}

// IsValidScore reports whether n is inside the rating score domain.
func IsValidScore(n int) bool {
	return n >= MinScore && n <= MaxScore
}
