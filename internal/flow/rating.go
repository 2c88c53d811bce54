package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/session"
	"github.com/BTreeMap/GearBot/internal/util"
)

// handleRatingEntry starts the pickpoint rating flow from the main menu.
func (d *Deps) handleRatingEntry(ctx context.Context, ev models.Event) error {
	_, ok, err := d.authorizeOrRedirect(ctx, ev)
	if err != nil || !ok {
		return err
	}

	points, err := d.Store.ListActivePickPoints()
	if err != nil {
		return err
	}
	if len(points) == 0 {
		slog.Info("Rating entry found no active pickpoints", "chatID", ev.ChatID)
		return d.send(ctx, ev.ChatID, msgNoPickPoints, nil)
	}

	ids := make([]int64, 0, len(points))
	names := make(session.Listing, len(points))
	for _, p := range points {
		ids = append(ids, p.ID)
		names[p.ID] = p.Name
	}
	if err := d.Sessions.SaveListing(ctx, ev.ChatID, session.VarPickPoints, names); err != nil {
		return err
	}

	if err := d.send(ctx, ev.ChatID, msgInfoNavigation, returnKeyboard()); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgChoosePickPoint, listingKeyboard(cbPickPoint, ids, names)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateRatingGetPickPoint)
}

// handleRatingPick records the chosen pickpoint and prompts for a score.
func (d *Deps) handleRatingPick(ctx context.Context, ev models.Event) error {
	d.ack(ctx, ev)

	id, err := callbackID(ev, cbPickPoint)
	if err != nil {
		return err
	}
	name, err := d.Sessions.ItemName(ctx, ev.ChatID, session.VarPickPoints, id)
	if err != nil {
		return err
	}
	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varRating, RatingData{PickPointID: id, PickPointName: name}); err != nil {
		return err
	}

	d.Tracker.EraseLast(ctx, ev.ChatID, 1)
	if err := d.send(ctx, ev.ChatID, msgPickPointChosen(name), navKeyboard()); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgScorePrompt(name), scoreKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateRatingSetScore)
}

// handleRatingBackToList re-renders the pickpoint listing from its cache.
func (d *Deps) handleRatingBackToList(ctx context.Context, ev models.Event) error {
	names, err := d.Sessions.GetListing(ctx, ev.ChatID, session.VarPickPoints)
	if err != nil {
		return err
	}
	d.Tracker.EraseLast(ctx, ev.ChatID, 3)
	if err := d.send(ctx, ev.ChatID, msgChoosePickPoint, listingKeyboard(cbPickPoint, listingIDs(names), names)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateRatingGetPickPoint)
}

// handleRatingScore records the score and prompts for the mandatory
// comment. Low scores ask what went wrong.
func (d *Deps) handleRatingScore(ctx context.Context, ev models.Event) error {
	d.ack(ctx, ev)

	score, err := strconv.Atoi(ev.Callback.Data)
	if err != nil || !models.IsValidScore(score) {
		return fmt.Errorf("%w: score payload %q", models.ErrInvalidVariable, ev.Callback.Data)
	}

	var data RatingData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varRating, &data); err != nil {
		return err
	}
	data.Score = score
	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varRating, data); err != nil {
		return err
	}

	if err := d.send(ctx, ev.ChatID, msgScoreNoted(score), nil); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, commentPrompt(score), navKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateRatingSetComment)
}

// handleRatingBackToScore re-renders the score prompt from cached data.
func (d *Deps) handleRatingBackToScore(ctx context.Context, ev models.Event) error {
	var data RatingData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varRating, &data); err != nil {
		return err
	}
	d.Tracker.EraseLast(ctx, ev.ChatID, 4)
	if err := d.send(ctx, ev.ChatID, msgPickPointChosen(data.PickPointName), navKeyboard()); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgScorePrompt(data.PickPointName), scoreKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateRatingSetScore)
}

// handleRatingComment records the sanitized comment and asks to confirm.
func (d *Deps) handleRatingComment(ctx context.Context, ev models.Event) error {
	var data RatingData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varRating, &data); err != nil {
		return err
	}
	data.Comment = util.SanitizeFreeText(ev.Text)
	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varRating, data); err != nil {
		return err
	}

	confirm := msgRatingConfirm(data.PickPointName, data.Score, data.Comment)
	if err := d.send(ctx, ev.ChatID, confirm, confirmKeyboard(true)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateRatingGetConfirm)
}

// handleRatingConfirmYes assembles and submits the rating record, then
// terminates the branch. A missing or malformed session payload at this
// final step is reported as a save failure.
func (d *Deps) handleRatingConfirmYes(ctx context.Context, ev models.Event) error {
	var data RatingData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varRating, &data); err != nil {
		d.ack(ctx, ev)
		return fmt.Errorf("%w: %v", models.ErrRatingSave, err)
	}
	user, ok := d.isAuthorized(ev.ChatID)
	if !ok {
		d.ack(ctx, ev)
		return fmt.Errorf("%w: chat %d has no active user", models.ErrRatingSave, ev.ChatID)
	}

	rating := models.Rating{
		PickPointID: data.PickPointID,
		UserID:      user.ID,
		Score:       data.Score,
		Comment:     data.Comment,
		CreatedAt:   time.Now(),
	}
	if err := d.Store.AddRating(rating); err != nil {
		d.ack(ctx, ev)
		return fmt.Errorf("%w: %v", models.ErrRatingSave, err)
	}
	slog.Info("Rating saved", "chatID", ev.ChatID, "pickpointID", data.PickPointID, "score", data.Score)

	d.alert(ctx, ev, msgRatingSaved)
	return d.terminate(ctx, ev)
}

// handleRatingConfirmNo re-shows the comment prompt so the user can
// rewrite their comment. The cached score keeps the prompt wording.
func (d *Deps) handleRatingConfirmNo(ctx context.Context, ev models.Event) error {
	d.ack(ctx, ev)

	var data RatingData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varRating, &data); err != nil {
		return err
	}
	d.Tracker.EraseLast(ctx, ev.ChatID, 1)
	if err := d.send(ctx, ev.ChatID, msgScoreNoted(data.Score), nil); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, commentPrompt(data.Score), navKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StateRatingSetComment)
}

// handleRatingConfirmCancel abandons the flow.
func (d *Deps) handleRatingConfirmCancel(ctx context.Context, ev models.Event) error {
	d.alert(ctx, ev, msgActionCancelled)
	return d.terminate(ctx, ev)
}

// listingIDs returns a listing's ids in ascending order for stable
// keyboard re-renders.
func listingIDs(names session.Listing) []int64 {
	ids := make([]int64, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
