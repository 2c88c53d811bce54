package flow

import (
	"context"

	"github.com/BTreeMap/GearBot/internal/engine"
	"github.com/BTreeMap/GearBot/internal/models"
)

// Commands returns the bot-level command list and its display order.
func Commands() (map[string]string, []string) {
	return map[string]string{
		"start":  "Start the bot",
		"help":   "What this bot can do",
		"cancel": "Abandon the current action",
	}, []string{"start", "help", "cancel"}
}

// Transitions builds the complete transition table. Declaration order is
// dispatch order: global commands and the return-to-menu escape hatch
// come first so they win in every state; flow-entry transitions are
// scoped to the default state; everything else is scoped to its exact
// step. Predicates within one state are mutually exclusive.
func (d *Deps) Transitions() []engine.Transition {
	return []engine.Transition{
		// Global commands and escape hatch.
		{AnyState: true, Match: engine.TextEquals("/start"), Name: "cmd_start", Handle: d.handleStart},
		{AnyState: true, Match: engine.TextEquals("/help"), Name: "cmd_help", Handle: d.handleHelp},
		{AnyState: true, Match: engine.TextEquals("/cancel"), Name: "cmd_cancel", Handle: d.handleReturn},
		{AnyState: true, Match: engine.TextSuffix(sufReturn), Name: "return_to_menu", Handle: d.handleReturn},

		// Auth.
		{State: models.StateAuthGetContact, Match: engine.HasContact(), Name: "auth_contact", Handle: d.handleAuthContact},
		{State: models.StateAuthGetContact, Match: engine.NoContact(), Name: "auth_no_contact", Handle: d.handleAuthNoContact},

		// Main menu entries.
		{State: models.StateDefault, Match: engine.TextSuffix(sufRate), Name: "rating_entry", Handle: d.handleRatingEntry},
		{State: models.StateDefault, Match: engine.TextSuffix(sufInfo), Name: "info_entry",
			Handle: func(ctx context.Context, ev models.Event) error {
				return d.handleCatalogEntry(ctx, ev, models.StatePPEInfoGetType)
			}},
		{State: models.StateDefault, Match: engine.TextSuffix(sufReview), Name: "review_entry",
			Handle: func(ctx context.Context, ev models.Event) error {
				return d.handleCatalogEntry(ctx, ev, models.StatePPEReviewGetType)
			}},
		{State: models.StateDefault, Match: engine.TextSuffix(sufFAQ), Name: "faq_entry", Handle: d.handleFAQEntry},
		{State: models.StateDefault, Match: engine.TextSuffix(sufNotify), Name: "notice_entry", Handle: d.handleNoticeEntry},

		// Pickpoint rating.
		{State: models.StateRatingGetPickPoint, Match: engine.CallbackPrefix(cbPickPoint), Name: "rating_pick", Handle: d.handleRatingPick},
		{State: models.StateRatingSetScore, Match: engine.TextSuffix(sufBack), Name: "rating_back_to_list", Handle: d.handleRatingBackToList},
		{State: models.StateRatingSetScore, Match: engine.CallbackIn("1", "2", "3", "4", "5"), Name: "rating_score", Handle: d.handleRatingScore},
		{State: models.StateRatingSetComment, Match: engine.TextSuffix(sufBack), Name: "rating_back_to_score", Handle: d.handleRatingBackToScore},
		{State: models.StateRatingSetComment, Match: engine.AnyText(sufBack, sufReturn), Name: "rating_comment", Handle: d.handleRatingComment},
		{State: models.StateRatingGetConfirm, Match: engine.CallbackIn(cbYes), Name: "rating_confirm_yes", Handle: d.handleRatingConfirmYes},
		{State: models.StateRatingGetConfirm, Match: engine.CallbackIn(cbNo), Name: "rating_confirm_no", Handle: d.handleRatingConfirmNo},
		{State: models.StateRatingGetConfirm, Match: engine.CallbackIn(cbCancel), Name: "rating_confirm_cancel", Handle: d.handleRatingConfirmCancel},

		// PPE info.
		{State: models.StatePPEInfoGetType, Match: engine.CallbackPrefix(cbType), Name: "info_type",
			Handle: func(ctx context.Context, ev models.Event) error {
				return d.handleCatalogType(ctx, ev, models.StatePPEInfoGetModel)
			}},
		{State: models.StatePPEInfoGetModel, Match: engine.TextSuffix(sufBack), Name: "info_back_to_types",
			Handle: func(ctx context.Context, ev models.Event) error {
				return d.handleCatalogBackToTypes(ctx, ev, models.StatePPEInfoGetType)
			}},
		{State: models.StatePPEInfoGetModel, Match: engine.CallbackPrefix(cbModel), Name: "info_model", Handle: d.handleInfoModel},
		{State: models.StatePPEInfoShowInfo, Match: engine.TextSuffix(sufBack), Name: "info_back_to_models", Handle: d.handleInfoBackToModels},

		// PPE review.
		{State: models.StatePPEReviewGetType, Match: engine.CallbackPrefix(cbType), Name: "review_type",
			Handle: func(ctx context.Context, ev models.Event) error {
				return d.handleCatalogType(ctx, ev, models.StatePPEReviewGetModel)
			}},
		{State: models.StatePPEReviewGetModel, Match: engine.TextSuffix(sufBack), Name: "review_back_to_types",
			Handle: func(ctx context.Context, ev models.Event) error {
				return d.handleCatalogBackToTypes(ctx, ev, models.StatePPEReviewGetType)
			}},
		{State: models.StatePPEReviewGetModel, Match: engine.CallbackPrefix(cbModel), Name: "review_model", Handle: d.handleReviewModel},
		{State: models.StatePPEReviewSet, Match: engine.TextSuffix(sufBack), Name: "review_back_to_models", Handle: d.handleReviewBackToModels},
		{State: models.StatePPEReviewSet, Match: engine.AnyText(sufBack, sufReturn), Name: "review_text", Handle: d.handleReviewText},
		{State: models.StatePPEReviewConfirm, Match: engine.CallbackIn(cbYes), Name: "review_confirm_yes", Handle: d.handleReviewConfirmYes},
		{State: models.StatePPEReviewConfirm, Match: engine.CallbackIn(cbNo), Name: "review_confirm_no", Handle: d.handleReviewConfirmNo},
		{State: models.StatePPEReviewConfirm, Match: engine.CallbackIn(cbCancel), Name: "review_confirm_cancel", Handle: d.handleReviewConfirmCancel},

		// FAQ.
		{State: models.StateFAQGetQuestion, Match: engine.CallbackPrefix(cbQuestion), Name: "faq_question", Handle: d.handleFAQQuestion},

		// Mass notification.
		{State: models.StateNotificationSetText, Match: engine.AnyText(sufReturn), Name: "notice_text", Handle: d.handleNoticeText},
		{State: models.StateNotificationGetConfirm, Match: engine.CallbackIn(cbYes), Name: "notice_confirm_yes", Handle: d.handleNoticeConfirmYes},
		{State: models.StateNotificationGetConfirm, Match: engine.CallbackIn(cbNo, cbCancel), Name: "notice_confirm_no", Handle: d.handleNoticeConfirmNo},
	}
}
