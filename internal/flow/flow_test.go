package flow

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/notify"
	"github.com/BTreeMap/GearBot/internal/session"
	"github.com/BTreeMap/GearBot/internal/store"
)

// fakeStore is a full in-memory store.Store for flow scenarios.
type fakeStore struct {
	sessions   map[int64]models.Session
	users      []models.User
	pickpoints []models.PickPoint
	types      []models.PPEType
	ppeModels  []models.PPEModel
	faq        []models.FAQEntry
	ratings    []models.Rating
	reviews    []models.Review
	notices    []models.Notice
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[int64]models.Session)}
}

func (f *fakeStore) GetSession(chatID int64) (*models.Session, error) {
	s, ok := f.sessions[chatID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) SaveSession(s models.Session) error {
	f.sessions[s.ChatID] = s
	return nil
}

func (f *fakeStore) DeleteSession(chatID int64) error {
	delete(f.sessions, chatID)
	return nil
}

func (f *fakeStore) GetUserByChatID(chatID int64) (*models.User, error) {
	for i := range f.users {
		u := f.users[i]
		if u.Active && u.ChatID != nil && *u.ChatID == chatID {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetActiveUserByPhone(phone string) (*models.User, error) {
	for i := range f.users {
		u := f.users[i]
		if u.Active && u.PhoneNumber == phone {
			return &u, nil
		}
	}
	return nil, models.ErrUserNotExist
}

func (f *fakeStore) BindUserChat(userID, chatID int64) error {
	for i := range f.users {
		if f.users[i].ID == userID {
			f.users[i].ChatID = &chatID
			f.users[i].LastModifiedAt = time.Now()
			return nil
		}
	}
	return models.ErrUserNotExist
}

func (f *fakeStore) ListNotifiableUsers() ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Active && u.ChatID != nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActivePickPoints() ([]models.PickPoint, error) {
	var out []models.PickPoint
	for _, p := range f.pickpoints {
		if p.Active {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveTypes() ([]models.PPEType, error) {
	var out []models.PPEType
	for _, t := range f.types {
		if !t.Active {
			continue
		}
		for _, m := range f.ppeModels {
			if m.TypeID == t.ID && m.Active {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) ListActiveModelsByType(typeID int64) ([]models.PPEModel, error) {
	var out []models.PPEModel
	for _, m := range f.ppeModels {
		if m.TypeID == typeID && m.Active {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) GetModelByID(id int64) (*models.PPEModel, error) {
	for i := range f.ppeModels {
		if f.ppeModels[i].ID == id {
			m := f.ppeModels[i]
			return &m, nil
		}
	}
	return nil, models.ErrInvalidModel
}

func (f *fakeStore) SetModelFileID(modelID int64, fileID string) error {
	for i := range f.ppeModels {
		if f.ppeModels[i].ID == modelID {
			f.ppeModels[i].FileID = fileID
			return nil
		}
	}
	return models.ErrInvalidModel
}

func (f *fakeStore) ListFAQByPriority() ([]models.FAQEntry, error) {
	var out []models.FAQEntry
	for _, e := range f.faq {
		if e.Active {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetFAQByID(id int64) (*models.FAQEntry, error) {
	for _, e := range f.faq {
		if e.ID == id {
			entry := e
			return &entry, nil
		}
	}
	return nil, models.ErrQuestionNotFound
}

func (f *fakeStore) AddRating(r models.Rating) error {
	f.ratings = append(f.ratings, r)
	return nil
}

func (f *fakeStore) AddReview(r models.Review) error {
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeStore) AddNotice(text string, createdAt time.Time) (int64, error) {
	id := int64(len(f.notices) + 1)
	f.notices = append(f.notices, models.Notice{ID: id, Text: text, CreatedAt: createdAt})
	return id, nil
}

func (f *fakeStore) ListUndeliveredNotices() ([]models.Notice, error) {
	var out []models.Notice
	for _, n := range f.notices {
		if n.DeliveredAt == nil {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkNoticeDelivered(id int64, at time.Time) error {
	for i := range f.notices {
		if f.notices[i].ID == id {
			f.notices[i].DeliveredAt = &at
			return nil
		}
	}
	return models.ErrNoticeNotFound
}

func (f *fakeStore) Close() error { return nil }

var _ store.Store = (*fakeStore)(nil)

// recordingMessenger records every send, delete and callback answer.
type recordingMessenger struct {
	nextID   int
	sent     []string
	photos   []string
	deleted  []int
	answered []string
}

func (r *recordingMessenger) SendMessage(ctx context.Context, chatID int64, text string, kb *models.Keyboard) (int, error) {
	r.nextID++
	r.sent = append(r.sent, text)
	return r.nextID, nil
}

func (r *recordingMessenger) SendPhoto(ctx context.Context, chatID int64, photo models.PhotoRef, caption string, kb *models.Keyboard) (int, string, error) {
	r.nextID++
	r.photos = append(r.photos, caption)
	return r.nextID, "uploaded-handle", nil
}

func (r *recordingMessenger) EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb *models.Keyboard) error {
	return nil
}

func (r *recordingMessenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	r.deleted = append(r.deleted, messageID)
	return nil
}

func (r *recordingMessenger) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	r.answered = append(r.answered, text)
	return nil
}

func (r *recordingMessenger) Events() <-chan models.Event  { return nil }
func (r *recordingMessenger) Start(ctx context.Context) error { return nil }
func (r *recordingMessenger) Stop() error                  { return nil }

func (r *recordingMessenger) lastSent() string {
	if len(r.sent) == 0 {
		return ""
	}
	return r.sent[len(r.sent)-1]
}

// fixture builds a Deps over seeded in-memory collaborators.
func fixture() (*Deps, *fakeStore, *recordingMessenger) {
	st := newFakeStore()
	msgr := &recordingMessenger{}
	sessions := session.NewManager(st)
	tracker := session.NewTracker(sessions, msgr)
	sweeper := notify.NewSweeper(st, msgr, notify.WithDelay(0))
	deps := &Deps{
		Store:     st,
		Sessions:  sessions,
		Tracker:   tracker,
		Messenger: msgr,
		Notifier:  sweeper,
		Config: Config{
			IsAdmin:  func(id int64) bool { return id == 999 },
			MediaDir: "testdata",
		},
	}
	return deps, st, msgr
}

// dispatch replays the dispatcher's first-match policy synchronously.
func dispatch(t *testing.T, deps *Deps, ev models.Event) {
	t.Helper()
	ctx := context.Background()
	state, err := deps.Sessions.State(ctx, ev.ChatID)
	if err != nil {
		t.Fatalf("state lookup failed: %v", err)
	}
	for _, tr := range deps.Transitions() {
		if !tr.AnyState && tr.State != state {
			continue
		}
		if !tr.Match(ev) {
			continue
		}
		if err := tr.Handle(ctx, ev); err != nil {
			deps.Recover(ctx, ev, err)
		}
		return
	}
	deps.Unmatched(ctx, ev)
}

func mustState(t *testing.T, deps *Deps, chatID int64, want models.StateLabel) {
	t.Helper()
	state, err := deps.Sessions.State(context.Background(), chatID)
	if err != nil {
		t.Fatalf("state lookup failed: %v", err)
	}
	if state != want {
		t.Fatalf("state = %q, want %q", state, want)
	}
}

func boundUser(id, chatID int64, phone string) models.User {
	return models.User{ID: id, ChatID: &chatID, PhoneNumber: phone, Active: true}
}

func textEv(chatID int64, text string) models.Event {
	return models.Event{ChatID: chatID, SenderID: chatID, Text: text}
}

func cbEv(chatID int64, data string) models.Event {
	return models.Event{ChatID: chatID, SenderID: chatID, Callback: &models.Callback{ID: "cb", Data: data}}
}

func TestHappyPathRating(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.pickpoints = []models.PickPoint{{ID: 1, Name: "Pickpoint A", Active: true}}

	dispatch(t, deps, textEv(10, "🏬 Rate a pickpoint"))
	mustState(t, deps, 10, models.StateRatingGetPickPoint)
	if msgr.lastSent() != msgChoosePickPoint {
		t.Fatalf("last sent = %q, want pickpoint listing prompt", msgr.lastSent())
	}

	dispatch(t, deps, cbEv(10, "pickpoint:1"))
	mustState(t, deps, 10, models.StateRatingSetScore)

	dispatch(t, deps, cbEv(10, "5"))
	mustState(t, deps, 10, models.StateRatingSetComment)
	if msgr.lastSent() != msgCommentPromptHigh {
		t.Errorf("comment prompt = %q, want high-score wording", msgr.lastSent())
	}

	dispatch(t, deps, textEv(10, "Great service!"))
	mustState(t, deps, 10, models.StateRatingGetConfirm)

	dispatch(t, deps, cbEv(10, "yes"))
	mustState(t, deps, 10, models.StateDefault)

	if len(st.ratings) != 1 {
		t.Fatalf("ratings = %d, want 1", len(st.ratings))
	}
	r := st.ratings[0]
	if r.PickPointID != 1 || r.UserID != 1 || r.Score != 5 || r.Comment != "Great service!" {
		t.Errorf("rating = %+v", r)
	}

	// Termination invariant: vars and tracked list gone with the session.
	if _, ok := st.sessions[10]; ok {
		t.Error("session row survived branch termination")
	}
}

func TestLowScoreCommentPrompt(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.pickpoints = []models.PickPoint{{ID: 1, Name: "Pickpoint A", Active: true}}

	dispatch(t, deps, textEv(10, "🏬 Rate a pickpoint"))
	dispatch(t, deps, cbEv(10, "pickpoint:1"))
	dispatch(t, deps, cbEv(10, "2"))
	if msgr.lastSent() != msgCommentPromptLow {
		t.Errorf("comment prompt = %q, want low-score wording", msgr.lastSent())
	}
}

func TestRatingBackNavigation(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.pickpoints = []models.PickPoint{{ID: 1, Name: "Pickpoint A", Active: true}}

	dispatch(t, deps, textEv(10, "🏬 Rate a pickpoint"))
	dispatch(t, deps, cbEv(10, "pickpoint:1"))
	mustState(t, deps, 10, models.StateRatingSetScore)

	deleted := len(msgr.deleted)
	dispatch(t, deps, textEv(10, "⬅️ Back"))
	mustState(t, deps, 10, models.StateRatingGetPickPoint)
	if len(msgr.deleted)-deleted != 3 {
		t.Errorf("back from score deleted %d messages, want 3", len(msgr.deleted)-deleted)
	}
	if msgr.lastSent() != msgChoosePickPoint {
		t.Errorf("last sent = %q, want re-rendered listing", msgr.lastSent())
	}

	// The cached listing still resolves the choice without re-querying.
	st.pickpoints = nil
	dispatch(t, deps, cbEv(10, "pickpoint:1"))
	mustState(t, deps, 10, models.StateRatingSetScore)

	dispatch(t, deps, cbEv(10, "4"))
	mustState(t, deps, 10, models.StateRatingSetComment)
	deleted = len(msgr.deleted)
	dispatch(t, deps, textEv(10, "⬅️ Back"))
	mustState(t, deps, 10, models.StateRatingSetScore)
	if len(msgr.deleted)-deleted != 4 {
		t.Errorf("back from comment deleted %d messages, want 4", len(msgr.deleted)-deleted)
	}
}

func TestStaleSessionRecovery(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}

	// A session mid-flow with no listing cache simulates expiry.
	if err := deps.Sessions.SetState(context.Background(), 10, models.StateRatingGetPickPoint); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dispatch(t, deps, cbEv(10, "pickpoint:1"))
	mustState(t, deps, 10, models.StateDefault)

	found := false
	for _, text := range msgr.sent {
		if text == msgSomethingWrong {
			found = true
		}
	}
	if !found {
		t.Errorf("generic recovery message not sent; sent = %v", msgr.sent)
	}
	if _, ok := st.sessions[10]; ok {
		t.Error("stale session not cleared by recovery")
	}
}

func TestUnauthorizedEntryRedirect(t *testing.T) {
	deps, _, msgr := fixture()

	dispatch(t, deps, textEv(10, "🦺 PPE info"))
	mustState(t, deps, 10, models.StateAuthGetContact)
	if msgr.lastSent() != msgAuthRequired {
		t.Errorf("last sent = %q, want auth prompt", msgr.lastSent())
	}
}

func TestAuthContactBindsByNormalizedPhone(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{{ID: 1, PhoneNumber: "+78887776655", Active: true}}

	dispatch(t, deps, textEv(10, "🦺 PPE info"))
	mustState(t, deps, 10, models.StateAuthGetContact)

	// Shared contact arrives without the leading "+".
	ev := models.Event{ChatID: 10, SenderID: 10, Contact: &models.Contact{PhoneNumber: "78887776655", UserID: 10}}
	dispatch(t, deps, ev)

	mustState(t, deps, 10, models.StateDefault)
	if st.users[0].ChatID == nil || *st.users[0].ChatID != 10 {
		t.Fatalf("user not bound: %+v", st.users[0])
	}
	if msgr.lastSent() != msgAuthWelcome {
		t.Errorf("last sent = %q, want welcome", msgr.lastSent())
	}
}

func TestAuthUnknownPhoneReprompts(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{{ID: 1, PhoneNumber: "+78887776655", Active: true}}

	dispatch(t, deps, textEv(10, "🔎 FAQ"))
	mustState(t, deps, 10, models.StateAuthGetContact)

	ev := models.Event{ChatID: 10, SenderID: 10, Contact: &models.Contact{PhoneNumber: "70000000000", UserID: 10}}
	dispatch(t, deps, ev)
	mustState(t, deps, 10, models.StateAuthGetContact)
	if msgr.lastSent() != msgAuthNotFound {
		t.Errorf("last sent = %q, want not-registered message", msgr.lastSent())
	}

	// Typing instead of sharing a contact self-loops too.
	dispatch(t, deps, textEv(10, "hello?"))
	mustState(t, deps, 10, models.StateAuthGetContact)
	if msgr.lastSent() != msgAuthNoContact {
		t.Errorf("last sent = %q, want contact-required message", msgr.lastSent())
	}
}

func TestPPEInfoTerminalCachesFileID(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.types = []models.PPEType{{ID: 1, Name: "Helmets", Active: true}}
	st.ppeModels = []models.PPEModel{{
		ID: 5, TypeID: 1, Name: "Helmet X", Active: true,
		ProtectProps: "Impact resistant", CareProcedure: "Wipe dry",
	}}

	dispatch(t, deps, textEv(10, "🦺 PPE info"))
	mustState(t, deps, 10, models.StatePPEInfoGetType)

	dispatch(t, deps, cbEv(10, "type:1"))
	mustState(t, deps, 10, models.StatePPEInfoGetModel)

	dispatch(t, deps, cbEv(10, "model:5"))
	mustState(t, deps, 10, models.StatePPEInfoShowInfo)

	if len(msgr.photos) != 1 || msgr.photos[0] != "Helmet X" {
		t.Errorf("photos = %v, want the model card", msgr.photos)
	}
	if st.ppeModels[0].FileID != "uploaded-handle" {
		t.Errorf("file id = %q, want cached upload handle", st.ppeModels[0].FileID)
	}

	// Two populated long-text fields render as two separate messages.
	var sections int
	for _, text := range msgr.sent {
		if strings.Contains(text, "Impact resistant") || strings.Contains(text, "Wipe dry") {
			sections++
		}
	}
	if sections != 2 {
		t.Errorf("rendered %d info sections, want 2", sections)
	}

	// Back from the terminal re-renders the cached model listing.
	dispatch(t, deps, textEv(10, "⬅️ Back"))
	mustState(t, deps, 10, models.StatePPEInfoGetModel)
}

func TestReviewFlowSavesRecord(t *testing.T) {
	deps, st, _ := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.types = []models.PPEType{{ID: 1, Name: "Helmets", Active: true}}
	st.ppeModels = []models.PPEModel{{ID: 5, TypeID: 1, Name: "Helmet X", Active: true, FileID: "cached"}}

	dispatch(t, deps, textEv(10, "📖 Leave a review"))
	mustState(t, deps, 10, models.StatePPEReviewGetType)
	dispatch(t, deps, cbEv(10, "type:1"))
	mustState(t, deps, 10, models.StatePPEReviewGetModel)
	dispatch(t, deps, cbEv(10, "model:5"))
	mustState(t, deps, 10, models.StatePPEReviewSet)

	dispatch(t, deps, textEv(10, "Comfortable and light 👍"))
	mustState(t, deps, 10, models.StatePPEReviewConfirm)

	// Declining re-opens the input step.
	dispatch(t, deps, cbEv(10, "no"))
	mustState(t, deps, 10, models.StatePPEReviewSet)

	dispatch(t, deps, textEv(10, "Comfortable and light"))
	dispatch(t, deps, cbEv(10, "yes"))
	mustState(t, deps, 10, models.StateDefault)

	if len(st.reviews) != 1 {
		t.Fatalf("reviews = %d, want 1", len(st.reviews))
	}
	if st.reviews[0].ModelID != 5 || st.reviews[0].UserID != 1 || st.reviews[0].Text != "Comfortable and light" {
		t.Errorf("review = %+v", st.reviews[0])
	}
	// A cached handle means no re-upload happened.
	if st.ppeModels[0].FileID != "cached" {
		t.Errorf("file id overwritten: %q", st.ppeModels[0].FileID)
	}
}

func TestEmojiStrippedFromComment(t *testing.T) {
	deps, st, _ := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.pickpoints = []models.PickPoint{{ID: 1, Name: "Pickpoint A", Active: true}}

	dispatch(t, deps, textEv(10, "🏬 Rate a pickpoint"))
	dispatch(t, deps, cbEv(10, "pickpoint:1"))
	dispatch(t, deps, cbEv(10, "5"))
	dispatch(t, deps, textEv(10, "Great! 🔥🔥"))
	dispatch(t, deps, cbEv(10, "yes"))

	if len(st.ratings) != 1 {
		t.Fatalf("ratings = %d, want 1", len(st.ratings))
	}
	if st.ratings[0].Comment != "Great!" {
		t.Errorf("comment = %q, want emoji stripped", st.ratings[0].Comment)
	}
}

func TestFAQAnswerKeepsState(t *testing.T) {
	deps, st, msgr := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.faq = []models.FAQEntry{
		{ID: 1, Question: "How to wash gloves?", Answer: "Cold water only.", Priority: 10, Active: true},
		{ID: 2, Question: "When to replace a helmet?", Answer: "After any impact.", Priority: 20, Active: true},
	}

	dispatch(t, deps, textEv(10, "🔎 FAQ"))
	mustState(t, deps, 10, models.StateFAQGetQuestion)

	dispatch(t, deps, cbEv(10, "question:2"))
	mustState(t, deps, 10, models.StateFAQGetQuestion)
	if !strings.Contains(msgr.lastSent(), "After any impact.") {
		t.Errorf("last sent = %q, want the answer", msgr.lastSent())
	}

	// A second question can be picked from the same listing.
	dispatch(t, deps, cbEv(10, "question:1"))
	if !strings.Contains(msgr.lastSent(), "Cold water only.") {
		t.Errorf("last sent = %q, want the answer", msgr.lastSent())
	}
}

func TestReturnToMainMenuFromAnyState(t *testing.T) {
	deps, st, _ := fixture()
	st.users = []models.User{boundUser(1, 10, "+78887776655")}
	st.pickpoints = []models.PickPoint{{ID: 1, Name: "Pickpoint A", Active: true}}

	dispatch(t, deps, textEv(10, "🏬 Rate a pickpoint"))
	dispatch(t, deps, cbEv(10, "pickpoint:1"))
	mustState(t, deps, 10, models.StateRatingSetScore)

	dispatch(t, deps, textEv(10, "🏠 Return to main menu"))
	mustState(t, deps, 10, models.StateDefault)
	if _, ok := st.sessions[10]; ok {
		t.Error("session row survived return to menu")
	}
}

func TestNotificationFlowAdminOnly(t *testing.T) {
	deps, st, msgr := fixture()
	adminChat := int64(999)
	st.users = []models.User{
		boundUser(1, 100, "+70000000001"),
		boundUser(2, 999, "+70000000009"),
	}

	// A non-admin entry is a silent no-op.
	dispatch(t, deps, textEv(100, "📢 Mass notification"))
	mustState(t, deps, 100, models.StateDefault)

	dispatch(t, deps, textEv(adminChat, "📢 Mass notification"))
	mustState(t, deps, adminChat, models.StateNotificationSetText)

	dispatch(t, deps, textEv(adminChat, "  Safety briefing at 9:00 \n"))
	mustState(t, deps, adminChat, models.StateNotificationGetConfirm)

	dispatch(t, deps, cbEv(adminChat, "yes"))
	mustState(t, deps, adminChat, models.StateDefault)

	if len(st.notices) != 1 {
		t.Fatalf("notices = %d, want 1", len(st.notices))
	}
	if st.notices[0].Text != "Safety briefing at 9:00" {
		t.Errorf("notice text = %q, want surrounding whitespace trimmed", st.notices[0].Text)
	}
	if st.notices[0].DeliveredAt == nil {
		t.Error("notice not stamped after a fully successful fan-out")
	}
	var broadcasts int
	for _, text := range msgr.sent {
		if text == "Safety briefing at 9:00" {
			broadcasts++
		}
	}
	if broadcasts != 2 {
		t.Errorf("broadcast reached %d chats, want 2", broadcasts)
	}
}

func TestNotificationDeclineDiscards(t *testing.T) {
	deps, st, _ := fixture()
	st.users = []models.User{boundUser(2, 999, "+70000000009")}

	dispatch(t, deps, textEv(999, "📢 Mass notification"))
	dispatch(t, deps, textEv(999, "Never mind"))
	dispatch(t, deps, cbEv(999, "no"))
	mustState(t, deps, 999, models.StateDefault)
	if len(st.notices) != 0 {
		t.Errorf("declined notice recorded: %+v", st.notices)
	}
}

func TestStartCommandPerAuthState(t *testing.T) {
	deps, st, msgr := fixture()

	dispatch(t, deps, textEv(10, "/start"))
	mustState(t, deps, 10, models.StateAuthGetContact)
	if msgr.lastSent() != msgAuthRequired {
		t.Errorf("last sent = %q, want auth prompt", msgr.lastSent())
	}

	st.users = []models.User{boundUser(1, 11, "+78887776655")}
	dispatch(t, deps, textEv(11, "/start"))
	mustState(t, deps, 11, models.StateDefault)
	if msgr.lastSent() != msgGreeting {
		t.Errorf("last sent = %q, want greeting", msgr.lastSent())
	}
}
