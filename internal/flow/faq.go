package flow

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/session"
)

// handleFAQEntry lists active questions in priority order.
func (d *Deps) handleFAQEntry(ctx context.Context, ev models.Event) error {
	_, ok, err := d.authorizeOrRedirect(ctx, ev)
	if err != nil || !ok {
		return err
	}

	entries, err := d.Store.ListFAQByPriority()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		slog.Info("FAQ entry found no questions", "chatID", ev.ChatID)
		return d.send(ctx, ev.ChatID, msgNoQuestions, nil)
	}

	// Priority order from the store is the render order, not id order.
	ids := make([]int64, 0, len(entries))
	names := make(session.Listing, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
		names[e.ID] = e.Question
	}
	if err := d.Sessions.SaveListing(ctx, ev.ChatID, session.VarQuestions, names); err != nil {
		return err
	}

	if err := d.send(ctx, ev.ChatID, msgInfoNavigation, returnKeyboard()); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgChooseQuestion, listingKeyboard(cbQuestion, ids, names)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateFAQGetQuestion)
}

// handleFAQQuestion renders one question's answer. The state is left
// unchanged so the user can keep picking questions from the same listing;
// a stale id re-prompts in place instead of terminating.
func (d *Deps) handleFAQQuestion(ctx context.Context, ev models.Event) error {
	d.ack(ctx, ev)

	id, err := callbackID(ev, cbQuestion)
	if err != nil {
		return err
	}
	if _, err := d.Sessions.ItemName(ctx, ev.ChatID, session.VarQuestions, id); err != nil {
		return err
	}

	entry, err := d.Store.GetFAQByID(id)
	if err != nil {
		if errors.Is(err, models.ErrQuestionNotFound) {
			slog.Info("FAQ question vanished", "chatID", ev.ChatID, "questionID", id)
			return d.send(ctx, ev.ChatID, msgQuestionNotFound, nil)
		}
		return err
	}
	return d.send(ctx, ev.ChatID, msgFAQAnswer(entry.Question, entry.Answer), nil)
}
