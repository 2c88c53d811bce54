// Package models defines state management structures for GearBot flows.
package models

import "time"

// StateLabel identifies which flow and step a session is in.
// The empty string (StateDefault) means no flow is active.
type StateLabel string

const (
	// StateDefault is the implicit initial state of a new session and the
	// state entered after branch termination.
	StateDefault StateLabel = ""

	// Auth flow.
	StateAuthGetContact StateLabel = "auth:get_contact"

	// Mass notification flow.
	StateNotificationSetText    StateLabel = "notification:set_text"
	StateNotificationGetConfirm StateLabel = "notification:get_confirm"

	// Pickpoint rating flow.
	StateRatingGetPickPoint StateLabel = "rating:get_pickpoint"
	StateRatingSetScore     StateLabel = "rating:set_score"
	StateRatingSetComment   StateLabel = "rating:set_comment"
	StateRatingGetConfirm   StateLabel = "rating:get_confirm"

	// PPE info flow.
	StatePPEInfoGetType  StateLabel = "ppe_info:get_type"
	StatePPEInfoGetModel StateLabel = "ppe_info:get_model"
	StatePPEInfoShowInfo StateLabel = "ppe_info:show_info"

	// PPE review flow.
	StatePPEReviewGetType  StateLabel = "ppe_review:get_type"
	StatePPEReviewGetModel StateLabel = "ppe_review:get_model"
	StatePPEReviewSet      StateLabel = "ppe_review:set_review"
	StatePPEReviewConfirm  StateLabel = "ppe_review:confirm_review"

	// FAQ flow.
	StateFAQGetQuestion StateLabel = "faq:get_question"
)

// Session holds the conversation state for one chat identity.
// Vars carries flow-scoped values as JSON-encoded strings; Tracked lists
// the ids of bot messages sent during the current branch in send order.
type Session struct {
	ChatID    int64             `json:"chat_id"`
	State     StateLabel        `json:"state"`
	Vars      map[string]string `json:"vars,omitempty"`
	Tracked   []int             `json:"tracked,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
