// Package models defines transport-neutral event and keyboard structures.
package models

import "time"

// Callback is an inline button press carried inside an Event.
type Callback struct {
	ID        string `json:"id"`   // transport acknowledgement token
	Data      string `json:"data"` // structured payload, e.g. "pickpoint:3"
	MessageID int    `json:"message_id,omitempty"`
}

// Contact is a shared contact card carried inside an Event.
type Contact struct {
	PhoneNumber string `json:"phone_number"`
	UserID      int64  `json:"user_id,omitempty"`
}

// Event is one inbound user interaction: a text message, an inline button
// press, or a shared contact. Exactly one of Text, Callback or Contact is
// expected to be meaningful.
type Event struct {
	ChatID    int64     `json:"chat_id"`
	SenderID  int64     `json:"sender_id"`
	MessageID int       `json:"message_id"`
	Text      string    `json:"text,omitempty"`
	Callback  *Callback `json:"callback,omitempty"`
	Contact   *Contact  `json:"contact,omitempty"`
	Time      time.Time `json:"time"`
}

// IsCallback reports whether the event is an inline button press.
func (e Event) IsCallback() bool { return e.Callback != nil }

// CallbackID returns the acknowledgement token, or "" for plain messages.
func (e Event) CallbackID() string {
	if e.Callback == nil {
		return ""
	}
	return e.Callback.ID
}

// Button is one keyboard button. CallbackData marks an inline button;
// RequestContact marks a reply button asking to share the user's contact.
type Button struct {
	Text           string `json:"text"`
	CallbackData   string `json:"callback_data,omitempty"`
	RequestContact bool   `json:"request_contact,omitempty"`
}

// Keyboard is a transport-neutral keyboard layout. Inline keyboards are
// attached to a message; reply keyboards replace the client's input panel.
type Keyboard struct {
	Inline  bool       `json:"inline"`
	Rows    [][]Button `json:"rows"`
	OneTime bool       `json:"one_time,omitempty"`
}

// PhotoRef identifies a photo either by a cached remote file handle or by
// a local path to upload. FileID wins when both are set.
type PhotoRef struct {
	FileID string `json:"file_id,omitempty"`
	Path   string `json:"path,omitempty"`
}
