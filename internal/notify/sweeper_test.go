package notify

import (
	"context"
	"testing"
	"time"

	"github.com/BTreeMap/GearBot/internal/models"
	"github.com/BTreeMap/GearBot/internal/store"
)

// fakeStore carries users and notices in memory.
type fakeStore struct {
	users   []models.User
	notices []models.Notice
}

func (f *fakeStore) ListNotifiableUsers() ([]models.User, error) { return f.users, nil }

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

func (f *fakeStore) AddNotice(text string, createdAt time.Time) (int64, error) {
	id := int64(len(f.notices) + 1)
	f.notices = append(f.notices, models.Notice{ID: id, Text: text, CreatedAt: createdAt})
	return id, nil
}

func (f *fakeStore) GetSession(int64) (*models.Session, error)              { return nil, nil }
func (f *fakeStore) SaveSession(models.Session) error                       { return nil }
func (f *fakeStore) DeleteSession(int64) error                              { return nil }
func (f *fakeStore) GetUserByChatID(int64) (*models.User, error)            { return nil, nil }
func (f *fakeStore) GetActiveUserByPhone(string) (*models.User, error)      { return nil, nil }
func (f *fakeStore) BindUserChat(int64, int64) error                        { return nil }
func (f *fakeStore) ListActivePickPoints() ([]models.PickPoint, error)      { return nil, nil }
func (f *fakeStore) ListActiveTypes() ([]models.PPEType, error)             { return nil, nil }
func (f *fakeStore) ListActiveModelsByType(int64) ([]models.PPEModel, error) { return nil, nil }
func (f *fakeStore) GetModelByID(int64) (*models.PPEModel, error)           { return nil, nil }
func (f *fakeStore) SetModelFileID(int64, string) error                     { return nil }
func (f *fakeStore) ListFAQByPriority() ([]models.FAQEntry, error)          { return nil, nil }
func (f *fakeStore) GetFAQByID(int64) (*models.FAQEntry, error)             { return nil, nil }
func (f *fakeStore) AddRating(models.Rating) error                          { return nil }
func (f *fakeStore) AddReview(models.Review) error                          { return nil }
func (f *fakeStore) Close() error                                           { return nil }

var _ store.Store = (*fakeStore)(nil)

// flakyMessenger fails sends to the chats listed in fail.
type flakyMessenger struct {
	fail map[int64]bool
	sent []int64
}

func (f *flakyMessenger) SendMessage(ctx context.Context, chatID int64, text string, kb *models.Keyboard) (int, error) {
	if f.fail[chatID] {
		return 0, context.DeadlineExceeded
	}
	f.sent = append(f.sent, chatID)
	return len(f.sent), nil
}

func (f *flakyMessenger) SendPhoto(ctx context.Context, chatID int64, photo models.PhotoRef, caption string, kb *models.Keyboard) (int, string, error) {
	return 0, "", nil
}

func (f *flakyMessenger) EditMessage(ctx context.Context, chatID int64, messageID int, text string, kb *models.Keyboard) error {
	return nil
}

func (f *flakyMessenger) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return nil
}

func (f *flakyMessenger) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	return nil
}

func (f *flakyMessenger) Events() <-chan models.Event     { return nil }
func (f *flakyMessenger) Start(ctx context.Context) error { return nil }
func (f *flakyMessenger) Stop() error                     { return nil }

func chatID(v int64) *int64 { return &v }

func TestSweepPartialFailureLeavesNoticeUndelivered(t *testing.T) {
	st := &fakeStore{
		users: []models.User{
			{ID: 1, ChatID: chatID(100), Active: true},
			{ID: 2, ChatID: chatID(200), Active: true},
		},
	}
	if _, err := st.AddNotice("Safety briefing", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgr := &flakyMessenger{fail: map[int64]bool{200: true}}
	sweeper := NewSweeper(st, msgr, WithDelay(0))

	if err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.notices[0].DeliveredAt != nil {
		t.Error("partially delivered notice must stay undelivered")
	}
	if len(msgr.sent) != 1 || msgr.sent[0] != 100 {
		t.Errorf("sent = %v, want delivery to chat 100 only", msgr.sent)
	}

	// Next sweep with the failure gone retries and completes the fan-out.
	msgr.fail = nil
	if err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.notices[0].DeliveredAt == nil {
		t.Error("notice must be stamped after a fully successful sweep")
	}
	// Chat 100 was re-sent on the retry sweep; that re-send is accepted.
	if len(msgr.sent) != 3 {
		t.Errorf("sent = %v, want three deliveries across both sweeps", msgr.sent)
	}
}

func TestSweepSkipsUnboundUsers(t *testing.T) {
	st := &fakeStore{
		users: []models.User{
			{ID: 1, ChatID: chatID(100), Active: true},
			{ID: 2, Active: true}, // no bound chat
		},
	}
	if _, err := st.AddNotice("Reminder", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgr := &flakyMessenger{}
	sweeper := NewSweeper(st, msgr, WithDelay(0))
	if err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgr.sent) != 1 {
		t.Errorf("sent = %v, want one delivery", msgr.sent)
	}
	if st.notices[0].DeliveredAt == nil {
		t.Error("notice must be delivered when every bound user was reached")
	}
}

func TestSweepWithNothingToDeliver(t *testing.T) {
	st := &fakeStore{users: []models.User{{ID: 1, ChatID: chatID(100), Active: true}}}
	msgr := &flakyMessenger{}
	sweeper := NewSweeper(st, msgr)
	if err := sweeper.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgr.sent) != 0 {
		t.Errorf("sent = %v, want none", msgr.sent)
	}
}
