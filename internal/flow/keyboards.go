package flow

import (
	"fmt"

	"github.com/BTreeMap/GearBot/internal/models"
)

// Reply keyboard button labels. Emoji prefixes are presentation only;
// routing matches on the text suffix so the labels can be restyled
// without touching the transition table.
const (
	btnRate    = "🏬 Rate a pickpoint"
	btnInfo    = "🦺 PPE info"
	btnReview  = "📖 Leave a review"
	btnFAQ     = "🔎 FAQ"
	btnNotify  = "📢 Mass notification"
	btnBack    = "⬅️ Back"
	btnReturn  = "🏠 Return to main menu"
	btnContact = "📱 Share contact"
)

// Text suffixes the transition table matches against.
const (
	sufRate   = "Rate a pickpoint"
	sufInfo   = "PPE info"
	sufReview = "Leave a review"
	sufFAQ    = "FAQ"
	sufNotify = "Mass notification"
	sufBack   = "Back"
	sufReturn = "Return to main menu"
)

// Inline confirm payloads.
const (
	cbYes    = "yes"
	cbNo     = "no"
	cbCancel = "cancel"
)

// Inline callback payload prefixes for listing choices.
const (
	cbPickPoint = "pickpoint"
	cbType      = "type"
	cbModel     = "model"
	cbQuestion  = "question"
)

// mainMenuKeyboard is the resting reply keyboard. Admins get the mass
// notification row appended.
func mainMenuKeyboard(admin bool) *models.Keyboard {
	rows := [][]models.Button{
		{{Text: btnRate}, {Text: btnInfo}},
		{{Text: btnReview}, {Text: btnFAQ}},
	}
	if admin {
		rows = append(rows, []models.Button{{Text: btnNotify}})
	}
	return &models.Keyboard{Rows: rows}
}

// authKeyboard requests a contact share.
func authKeyboard() *models.Keyboard {
	return &models.Keyboard{
		Rows:    [][]models.Button{{{Text: btnContact, RequestContact: true}}},
		OneTime: true,
	}
}

// navKeyboard shows back and return-to-menu reply buttons.
func navKeyboard() *models.Keyboard {
	return &models.Keyboard{
		Rows: [][]models.Button{{{Text: btnBack}, {Text: btnReturn}}},
	}
}

// returnKeyboard shows only the return-to-menu reply button.
func returnKeyboard() *models.Keyboard {
	return &models.Keyboard{
		Rows: [][]models.Button{{{Text: btnReturn}}},
	}
}

// listingKeyboard renders one inline button per item, one per row, with
// payload "<prefix>:<id>". Items are rendered in the given id order so
// the listing is stable across re-renders.
func listingKeyboard(prefix string, ids []int64, names map[int64]string) *models.Keyboard {
	rows := make([][]models.Button, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []models.Button{{
			Text:         names[id],
			CallbackData: fmt.Sprintf("%s:%d", prefix, id),
		}})
	}
	return &models.Keyboard{Inline: true, Rows: rows}
}

// scoreKeyboard is the 1..5 inline score row.
func scoreKeyboard() *models.Keyboard {
	row := make([]models.Button, 0, models.MaxScore)
	for n := models.MinScore; n <= models.MaxScore; n++ {
		row = append(row, models.Button{Text: fmt.Sprintf("%d", n), CallbackData: fmt.Sprintf("%d", n)})
	}
	return &models.Keyboard{Inline: true, Rows: [][]models.Button{row}}
}

// confirmKeyboard is the yes/no/cancel inline row. withCancel toggles
// the cancel button for flows that only confirm or decline.
func confirmKeyboard(withCancel bool) *models.Keyboard {
	row := []models.Button{
		{Text: "✅ Yes", CallbackData: cbYes},
		{Text: "✏️ No", CallbackData: cbNo},
	}
	if withCancel {
		row = append(row, models.Button{Text: "🚫 Cancel", CallbackData: cbCancel})
	}
	return &models.Keyboard{Inline: true, Rows: [][]models.Button{row}}
}
