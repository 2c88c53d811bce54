package flow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/session"
	"github.com/BTreeMap/GearBot/internal/util"
)

// handleCatalogEntry starts a PPE flow from the main menu: snapshot the
// active type listing and prompt for a choice. Shared by the info and
// review flows, which differ only in their next state.
func (d *Deps) handleCatalogEntry(ctx context.Context, ev models.Event, next models.StateLabel) error {
	_, ok, err := d.authorizeOrRedirect(ctx, ev)
	if err != nil || !ok {
		return err
	}

	types, err := d.Store.ListActiveTypes()
	if err != nil {
		return err
	}
	if len(types) == 0 {
		slog.Info("Catalog entry found no active types", "chatID", ev.ChatID)
		return d.send(ctx, ev.ChatID, msgNoTypes, nil)
	}

	names := make(session.Listing, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}
	if err := d.Sessions.SaveListing(ctx, ev.ChatID, session.VarTypes, names); err != nil {
		return err
	}

	if err := d.send(ctx, ev.ChatID, msgInfoNavigation, returnKeyboard()); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgChooseType, listingKeyboard(cbType, listingIDs(names), names)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, next)
}

// handleCatalogType snapshots the model listing of the chosen type and
// prompts for a model choice.
func (d *Deps) handleCatalogType(ctx context.Context, ev models.Event, next models.StateLabel) error {
	d.ack(ctx, ev)

	typeID, err := callbackID(ev, cbType)
	if err != nil {
		return err
	}
	typeName, err := d.Sessions.ItemName(ctx, ev.ChatID, session.VarTypes, typeID)
	if err != nil {
		return err
	}

	ppeModels, err := d.Store.ListActiveModelsByType(typeID)
	if err != nil {
		return err
	}
	if len(ppeModels) == 0 {
		slog.Info("Catalog type has no active models", "chatID", ev.ChatID, "typeID", typeID)
		return d.send(ctx, ev.ChatID, msgNoModels, nil)
	}

	names := make(session.Listing, len(ppeModels))
	for _, m := range ppeModels {
		names[m.ID] = m.Name
	}
	if err := d.Sessions.SaveListing(ctx, ev.ChatID, session.VarModels, names); err != nil {
		return err
	}
	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varCatalog, CatalogNav{TypeID: typeID, TypeName: typeName}); err != nil {
		return err
	}

	d.Tracker.EraseLast(ctx, ev.ChatID, 1)
	if err := d.send(ctx, ev.ChatID, msgChooseModel(typeName), listingKeyboard(cbModel, listingIDs(names), names)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, next)
}

// handleCatalogBackToTypes re-renders the type listing from its cache.
func (d *Deps) handleCatalogBackToTypes(ctx context.Context, ev models.Event, next models.StateLabel) error {
	names, err := d.Sessions.GetListing(ctx, ev.ChatID, session.VarTypes)
	if err != nil {
		return err
	}
	d.Tracker.EraseLast(ctx, ev.ChatID, 1)
	if err := d.send(ctx, ev.ChatID, msgChooseType, listingKeyboard(cbType, listingIDs(names), names)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, next)
}

// backToModels re-renders the model listing from its cache after erasing
// the last n tracked messages.
func (d *Deps) backToModels(ctx context.Context, ev models.Event, erase int, next models.StateLabel) error {
	var nav CatalogNav
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varCatalog, &nav); err != nil {
		return err
	}
	names, err := d.Sessions.GetListing(ctx, ev.ChatID, session.VarModels)
	if err != nil {
		return err
	}
	d.Tracker.EraseLast(ctx, ev.ChatID, erase)
	if err := d.send(ctx, ev.ChatID, msgChooseModel(nav.TypeName), listingKeyboard(cbModel, listingIDs(names), names)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, next)
}

// resolveModel validates the chosen model id against the listing cache
// and fetches the full record.
func (d *Deps) resolveModel(ctx context.Context, ev models.Event) (*models.PPEModel, error) {
	id, err := callbackID(ev, cbModel)
	if err != nil {
		return nil, err
	}
	if _, err := d.Sessions.ItemName(ctx, ev.ChatID, session.VarModels, id); err != nil {
		return nil, err
	}
	return d.Store.GetModelByID(id)
}

// sendModelCard sends the model's name and photo as one tracked message.
// The transport file handle returned by the first upload is persisted so
// later sends reuse it instead of re-uploading the local file.
func (d *Deps) sendModelCard(ctx context.Context, chatID int64, model *models.PPEModel, kb *models.Keyboard) error {
	photo := models.PhotoRef{FileID: model.FileID}
	if photo.FileID == "" {
		photo.Path = filepath.Join(d.Config.MediaDir, fmt.Sprintf("%d.jpg", model.ID))
	}
	msgID, fileID, err := d.Messenger.SendPhoto(ctx, chatID, photo, model.Name, kb)
	if err != nil {
		return err
	}
	if err := d.Tracker.Track(ctx, chatID, msgID); err != nil {
		return err
	}
	if model.FileID == "" && fileID != "" {
		if err := d.Store.SetModelFileID(model.ID, fileID); err != nil {
			slog.Warn("Failed to cache model file handle", "error", err, "modelID", model.ID)
		}
	}
	return nil
}

// modelInfoSections lists the model's populated long-text fields in
// render order.
func modelInfoSections(model *models.PPEModel) [][2]string {
	all := [][2]string{
		{"Protective properties", model.ProtectProps},
		{"Care and usage rules", model.CareProcedure},
		{"Write-off criteria", model.WriteoffCriteria},
		{"Operating rules", model.OperatingRules},
	}
	sections := make([][2]string, 0, len(all))
	for _, s := range all {
		if s[1] != "" {
			sections = append(sections, s)
		}
	}
	return sections
}

// handleInfoModel renders the info flow terminal: photo card plus one
// message per populated long-text field.
func (d *Deps) handleInfoModel(ctx context.Context, ev models.Event) error {
	d.ack(ctx, ev)

	model, err := d.resolveModel(ctx, ev)
	if err != nil {
		if errors.Is(err, models.ErrInvalidModel) {
			slog.Info("Info model vanished from catalog", "chatID", ev.ChatID)
			return d.send(ctx, ev.ChatID, msgModelNotFound, nil)
		}
		return err
	}

	d.Tracker.EraseLast(ctx, ev.ChatID, 1)
	if err := d.sendModelCard(ctx, ev.ChatID, model, nil); err != nil {
		return err
	}
	shown := 1
	for _, section := range modelInfoSections(model) {
		text := fmt.Sprintf("<b>%s</b>\n\n%s", section[0], section[1])
		if err := d.send(ctx, ev.ChatID, text, nil); err != nil {
			return err
		}
		shown++
	}
	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varInfo, InfoData{ShownCount: shown}); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StatePPEInfoShowInfo)
}

// handleInfoBackToModels leaves the info terminal back to the model
// listing, erasing exactly the messages the card rendered.
func (d *Deps) handleInfoBackToModels(ctx context.Context, ev models.Event) error {
	var info InfoData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varInfo, &info); err != nil {
		return err
	}
	return d.backToModels(ctx, ev, info.ShownCount, models.StatePPEInfoGetModel)
}

// handleReviewModel renders the review flow terminal: photo card plus the
// free-text review prompt.
func (d *Deps) handleReviewModel(ctx context.Context, ev models.Event) error {
	d.ack(ctx, ev)

	model, err := d.resolveModel(ctx, ev)
	if err != nil {
		if errors.Is(err, models.ErrInvalidModel) {
			slog.Info("Review model vanished from catalog", "chatID", ev.ChatID)
			return d.send(ctx, ev.ChatID, msgModelNotFound, nil)
		}
		return err
	}

	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varReview, ReviewData{ModelID: model.ID, ModelName: model.Name}); err != nil {
		return err
	}

	d.Tracker.EraseLast(ctx, ev.ChatID, 1)
	if err := d.sendModelCard(ctx, ev.ChatID, model, nil); err != nil {
		return err
	}
	if err := d.send(ctx, ev.ChatID, msgReviewPrompt(model.Name), navKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StatePPEReviewSet)
}

// handleReviewBackToModels abandons the review prompt back to the model
// listing.
func (d *Deps) handleReviewBackToModels(ctx context.Context, ev models.Event) error {
	return d.backToModels(ctx, ev, 3, models.StatePPEReviewGetModel)
}

// handleReviewText records the sanitized review text and asks to confirm.
func (d *Deps) handleReviewText(ctx context.Context, ev models.Event) error {
	var data ReviewData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varReview, &data); err != nil {
		return err
	}
	data.Text = util.SanitizeFreeText(ev.Text)
	if err := d.Sessions.SetJSON(ctx, ev.ChatID, varReview, data); err != nil {
		return err
	}

	if err := d.send(ctx, ev.ChatID, msgReviewConfirm(data.ModelName, data.Text), confirmKeyboard(true)); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StatePPEReviewConfirm)
}

// handleReviewConfirmYes assembles and submits the review record, then
// terminates the branch.
func (d *Deps) handleReviewConfirmYes(ctx context.Context, ev models.Event) error {
	var data ReviewData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varReview, &data); err != nil {
		d.ack(ctx, ev)
		return fmt.Errorf("%w: %v", models.ErrReviewSave, err)
	}
	user, ok := d.isAuthorized(ev.ChatID)
	if !ok {
		d.ack(ctx, ev)
		return fmt.Errorf("%w: chat %d has no active user", models.ErrReviewSave, ev.ChatID)
	}

	review := models.Review{
		ModelID:   data.ModelID,
		UserID:    user.ID,
		Text:      data.Text,
		CreatedAt: time.Now(),
	}
	if err := d.Store.AddReview(review); err != nil {
		d.ack(ctx, ev)
		return fmt.Errorf("%w: %v", models.ErrReviewSave, err)
	}
	slog.Info("Review saved", "chatID", ev.ChatID, "modelID", data.ModelID)

	d.alert(ctx, ev, msgReviewSaved)
	return d.terminate(ctx, ev)
}

// handleReviewConfirmNo re-shows the review prompt for a rewrite. The
// session stays on the review input step.
func (d *Deps) handleReviewConfirmNo(ctx context.Context, ev models.Event) error {
	d.ack(ctx, ev)

	var data ReviewData
	if err := d.Sessions.GetJSON(ctx, ev.ChatID, varReview, &data); err != nil {
		return err
	}
	d.Tracker.EraseLast(ctx, ev.ChatID, 1)
	if err := d.send(ctx, ev.ChatID, msgReviewPrompt(data.ModelName), navKeyboard()); err != nil {
		return err
	}
	return d.Sessions.SetState(ctx, ev.ChatID, models.StatePPEReviewSet)
}

// handleReviewConfirmCancel abandons the flow.
func (d *Deps) handleReviewConfirmCancel(ctx context.Context, ev models.Event) error {
	d.alert(ctx, ev, msgActionCancelled)
	return d.terminate(ctx, ev)
}
