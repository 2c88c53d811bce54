// Package store provides storage backends for GearBot.
//
// This file implements the Store contract on top of database/sql. Both
// backends share it; only connection setup and migrations differ.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/BTreeMap/GearBot/internal/models"
)

// dbStore implements Store over an open *sql.DB. The statement builder
// carries the backend's placeholder format (Dollar for Postgres,
// Question for SQLite). returningID selects the insert-id strategy:
// lib/pq does not support LastInsertId, so Postgres reads the id back
// through a RETURNING clause.
type dbStore struct {
	db          *sql.DB
	sb          sq.StatementBuilderType
	returningID bool
}

func (s *dbStore) Close() error {
	slog.Debug("Store closing database connection")
	return s.db.Close()
}

// GetSession retrieves the session row for a chat, or nil if none exists.
func (s *dbStore) GetSession(chatID int64) (*models.Session, error) {
	query, args, err := s.sb.
		Select("chat_id", "state", "vars", "tracked", "created_at", "updated_at").
		From("sessions").
		Where(sq.Eq{"chat_id": chatID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build session query: %w", err)
	}

	var sess models.Session
	var varsJSON, trackedJSON sql.NullString
	err = s.db.QueryRow(query, args...).Scan(
		&sess.ChatID, &sess.State, &varsJSON, &trackedJSON, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		slog.Debug("Store GetSession not found", "chatID", chatID)
		return nil, nil
	}
	if err != nil {
		slog.Error("Store GetSession failed", "error", err, "chatID", chatID)
		return nil, fmt.Errorf("failed to query session for chat %d: %w", chatID, err)
	}

	if varsJSON.Valid && varsJSON.String != "" {
		sess.Vars = make(map[string]string)
		if err := json.Unmarshal([]byte(varsJSON.String), &sess.Vars); err != nil {
			slog.Error("Store GetSession vars unmarshal failed", "error", err, "chatID", chatID)
			sess.Vars = make(map[string]string)
		}
	}
	if trackedJSON.Valid && trackedJSON.String != "" {
		if err := json.Unmarshal([]byte(trackedJSON.String), &sess.Tracked); err != nil {
			slog.Error("Store GetSession tracked unmarshal failed", "error", err, "chatID", chatID)
			sess.Tracked = nil
		}
	}
	slog.Debug("Store GetSession found", "chatID", chatID, "state", sess.State)
	return &sess, nil
}

// SaveSession inserts or replaces the session row for a chat.
func (s *dbStore) SaveSession(sess models.Session) error {
	varsJSON, err := encodeJSONField(sess.Vars)
	if err != nil {
		return fmt.Errorf("encode session vars: %w", err)
	}
	trackedJSON, err := encodeJSONField(sess.Tracked)
	if err != nil {
		return fmt.Errorf("encode tracked messages: %w", err)
	}

	query, args, err := s.sb.
		Insert("sessions").
		Columns("chat_id", "state", "vars", "tracked", "created_at", "updated_at").
		Values(sess.ChatID, string(sess.State), varsJSON, trackedJSON, sess.CreatedAt, sess.UpdatedAt).
		Suffix("ON CONFLICT (chat_id) DO UPDATE SET state = excluded.state, vars = excluded.vars, tracked = excluded.tracked, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build session upsert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		slog.Error("Store SaveSession failed", "error", err, "chatID", sess.ChatID)
		return fmt.Errorf("failed to save session for chat %d: %w", sess.ChatID, err)
	}
	slog.Debug("Store SaveSession succeeded", "chatID", sess.ChatID, "state", sess.State)
	return nil
}

// DeleteSession removes the session row for a chat.
func (s *dbStore) DeleteSession(chatID int64) error {
	query, args, err := s.sb.Delete("sessions").Where(sq.Eq{"chat_id": chatID}).ToSql()
	if err != nil {
		return fmt.Errorf("build session delete: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		slog.Error("Store DeleteSession failed", "error", err, "chatID", chatID)
		return fmt.Errorf("failed to delete session for chat %d: %w", chatID, err)
	}
	slog.Debug("Store DeleteSession succeeded", "chatID", chatID)
	return nil
}

// GetUserByChatID returns the active user bound to a chat, or nil if the
// chat is not bound to anyone. Used for authorization checks.
func (s *dbStore) GetUserByChatID(chatID int64) (*models.User, error) {
	query, args, err := s.sb.
		Select("id", "chat_id", "phone_number", "active", "last_modified_at").
		From("gear_user").
		Where(sq.Eq{"chat_id": chatID, "active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}
	user, err := scanUserRow(s.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		slog.Debug("Store GetUserByChatID not found", "chatID", chatID)
		return nil, nil
	}
	if err != nil {
		slog.Error("Store GetUserByChatID failed", "error", err, "chatID", chatID)
		return nil, fmt.Errorf("failed to query user for chat %d: %w", chatID, err)
	}
	return user, nil
}

// GetActiveUserByPhone resolves a canonical phone number to an active user
// record. Returns models.ErrUserNotExist when no such user is registered.
func (s *dbStore) GetActiveUserByPhone(phone string) (*models.User, error) {
	query, args, err := s.sb.
		Select("id", "chat_id", "phone_number", "active", "last_modified_at").
		From("gear_user").
		Where(sq.Eq{"phone_number": phone, "active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user query: %w", err)
	}
	user, err := scanUserRow(s.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		slog.Debug("Store GetActiveUserByPhone not found", "phone_set", phone != "")
		return nil, models.ErrUserNotExist
	}
	if err != nil {
		slog.Error("Store GetActiveUserByPhone failed", "error", err)
		return nil, fmt.Errorf("failed to query user by phone: %w", err)
	}
	return user, nil
}

// BindUserChat binds a chat identity to a user and refreshes the
// modification timestamp.
func (s *dbStore) BindUserChat(userID, chatID int64) error {
	query, args, err := s.sb.
		Update("gear_user").
		Set("chat_id", chatID).
		Set("last_modified_at", time.Now()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user bind update: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		slog.Error("Store BindUserChat failed", "error", err, "userID", userID, "chatID", chatID)
		return fmt.Errorf("failed to bind chat %d to user %d: %w", chatID, userID, err)
	}
	slog.Info("Store BindUserChat succeeded", "userID", userID, "chatID", chatID)
	return nil
}

// ListNotifiableUsers returns every active user with a bound chat identity.
func (s *dbStore) ListNotifiableUsers() ([]models.User, error) {
	query, args, err := s.sb.
		Select("id", "chat_id", "phone_number", "active", "last_modified_at").
		From("gear_user").
		Where(sq.Eq{"active": true}).
		Where(sq.NotEq{"chat_id": nil}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notifiable users query: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("Store ListNotifiableUsers query failed", "error", err)
		return nil, fmt.Errorf("failed to query notifiable users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	slog.Debug("Store ListNotifiableUsers succeeded", "count", len(users))
	return users, nil
}

// ListActivePickPoints returns the distribution points open for rating.
func (s *dbStore) ListActivePickPoints() ([]models.PickPoint, error) {
	query, args, err := s.sb.
		Select("id", "name", "active").
		From("pickpoint").
		Where(sq.Eq{"active": true}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pickpoint query: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("Store ListActivePickPoints query failed", "error", err)
		return nil, fmt.Errorf("failed to query pickpoints: %w", err)
	}
	defer rows.Close()

	var points []models.PickPoint
	for rows.Next() {
		var p models.PickPoint
		if err := rows.Scan(&p.ID, &p.Name, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan pickpoint row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pickpoint rows: %w", err)
	}
	slog.Debug("Store ListActivePickPoints succeeded", "count", len(points))
	return points, nil
}

// ListActiveTypes returns active PPE types that have at least one active model.
func (s *dbStore) ListActiveTypes() ([]models.PPEType, error) {
	query, args, err := s.sb.
		Select("t.id", "t.name", "t.active").
		From("ppe_type t").
		Where(sq.Eq{"t.active": true}).
		Where("EXISTS (SELECT 1 FROM ppe_model m WHERE m.type_id = t.id AND m.active = ?)", true).
		OrderBy("t.name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build type query: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("Store ListActiveTypes query failed", "error", err)
		return nil, fmt.Errorf("failed to query PPE types: %w", err)
	}
	defer rows.Close()

	var types []models.PPEType
	for rows.Next() {
		var t models.PPEType
		if err := rows.Scan(&t.ID, &t.Name, &t.Active); err != nil {
			return nil, fmt.Errorf("failed to scan PPE type row: %w", err)
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate PPE type rows: %w", err)
	}
	slog.Debug("Store ListActiveTypes succeeded", "count", len(types))
	return types, nil
}

// ListActiveModelsByType returns active models of one PPE type.
func (s *dbStore) ListActiveModelsByType(typeID int64) ([]models.PPEModel, error) {
	query, args, err := s.sb.
		Select(modelColumns...).
		From("ppe_model").
		Where(sq.Eq{"type_id": typeID, "active": true}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build model query: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("Store ListActiveModelsByType query failed", "error", err, "typeID", typeID)
		return nil, fmt.Errorf("failed to query PPE models for type %d: %w", typeID, err)
	}
	defer rows.Close()

	var list []models.PPEModel
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate PPE model rows: %w", err)
	}
	slog.Debug("Store ListActiveModelsByType succeeded", "typeID", typeID, "count", len(list))
	return list, nil
}

// GetModelByID fetches a full PPE model record. Returns
// models.ErrInvalidModel when the id does not resolve.
func (s *dbStore) GetModelByID(id int64) (*models.PPEModel, error) {
	query, args, err := s.sb.
		Select(modelColumns...).
		From("ppe_model").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build model query: %w", err)
	}
	m, err := scanModelRow(s.db.QueryRow(query, args...))
	if err == sql.ErrNoRows {
		slog.Debug("Store GetModelByID not found", "modelID", id)
		return nil, models.ErrInvalidModel
	}
	if err != nil {
		slog.Error("Store GetModelByID failed", "error", err, "modelID", id)
		return nil, fmt.Errorf("failed to query PPE model %d: %w", id, err)
	}
	return m, nil
}

// SetModelFileID persists the transport file handle returned by the first
// photo upload so subsequent renders reuse it.
func (s *dbStore) SetModelFileID(modelID int64, fileID string) error {
	query, args, err := s.sb.
		Update("ppe_model").
		Set("file_id", fileID).
		Where(sq.Eq{"id": modelID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build file id update: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		slog.Error("Store SetModelFileID failed", "error", err, "modelID", modelID)
		return fmt.Errorf("failed to set file id for model %d: %w", modelID, err)
	}
	slog.Debug("Store SetModelFileID succeeded", "modelID", modelID)
	return nil
}

// ListFAQByPriority returns active FAQ entries ordered by priority ascending.
func (s *dbStore) ListFAQByPriority() ([]models.FAQEntry, error) {
	query, args, err := s.sb.
		Select("id", "question", "answer", "priority", "active").
		From("faq").
		Where(sq.Eq{"active": true}).
		OrderBy("priority ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build faq query: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("Store ListFAQByPriority query failed", "error", err)
		return nil, fmt.Errorf("failed to query FAQ entries: %w", err)
	}
	defer rows.Close()

	var entries []models.FAQEntry
	for rows.Next() {
		var e models.FAQEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.Priority, &e.Active); err != nil {
			return nil, fmt.Errorf("failed to scan FAQ row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate FAQ rows: %w", err)
	}
	slog.Debug("Store ListFAQByPriority succeeded", "count", len(entries))
	return entries, nil
}

// GetFAQByID fetches one FAQ entry. Returns models.ErrQuestionNotFound
// when the id is stale.
func (s *dbStore) GetFAQByID(id int64) (*models.FAQEntry, error) {
	query, args, err := s.sb.
		Select("id", "question", "answer", "priority", "active").
		From("faq").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build faq query: %w", err)
	}
	var e models.FAQEntry
	err = s.db.QueryRow(query, args...).Scan(&e.ID, &e.Question, &e.Answer, &e.Priority, &e.Active)
	if err == sql.ErrNoRows {
		slog.Debug("Store GetFAQByID not found", "questionID", id)
		return nil, models.ErrQuestionNotFound
	}
	if err != nil {
		slog.Error("Store GetFAQByID failed", "error", err, "questionID", id)
		return nil, fmt.Errorf("failed to query FAQ entry %d: %w", id, err)
	}
	return &e, nil
}

// AddRating inserts a completed pickpoint rating.
func (s *dbStore) AddRating(r models.Rating) error {
	query, args, err := s.sb.
		Insert("pickpoint_rating").
		Columns("pickpoint_id", "user_id", "score", "comment", "created_at").
		Values(r.PickPointID, r.UserID, r.Score, r.Comment, r.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build rating insert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		slog.Error("Store AddRating failed", "error", err, "pickpointID", r.PickPointID, "userID", r.UserID)
		return fmt.Errorf("failed to insert rating for pickpoint %d: %w", r.PickPointID, err)
	}
	slog.Info("Store AddRating succeeded", "pickpointID", r.PickPointID, "userID", r.UserID, "score", r.Score)
	return nil
}

// AddReview inserts a completed PPE model review.
func (s *dbStore) AddReview(r models.Review) error {
	query, args, err := s.sb.
		Insert("model_review").
		Columns("model_id", "user_id", "review_text", "created_at").
		Values(r.ModelID, r.UserID, r.Text, r.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build review insert: %w", err)
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		slog.Error("Store AddReview failed", "error", err, "modelID", r.ModelID, "userID", r.UserID)
		return fmt.Errorf("failed to insert review for model %d: %w", r.ModelID, err)
	}
	slog.Info("Store AddReview succeeded", "modelID", r.ModelID, "userID", r.UserID)
	return nil
}

// AddNotice records a broadcast with an unset delivered timestamp and
// returns the id of the inserted row. Callers pass the id to
// MarkNoticeDelivered, so it must be the real row id on both backends.
func (s *dbStore) AddNotice(text string, createdAt time.Time) (int64, error) {
	builder := s.sb.
		Insert("admin_notice").
		Columns("notice_text", "created_at").
		Values(text, createdAt)

	var id int64
	if s.returningID {
		query, args, err := builder.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, fmt.Errorf("build notice insert: %w", err)
		}
		if err := s.db.QueryRow(query, args...).Scan(&id); err != nil {
			slog.Error("Store AddNotice failed", "error", err)
			return 0, fmt.Errorf("failed to insert notice: %w", err)
		}
	} else {
		query, args, err := builder.ToSql()
		if err != nil {
			return 0, fmt.Errorf("build notice insert: %w", err)
		}
		res, err := s.db.Exec(query, args...)
		if err != nil {
			slog.Error("Store AddNotice failed", "error", err)
			return 0, fmt.Errorf("failed to insert notice: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			slog.Error("Store AddNotice id lookup failed", "error", err)
			return 0, fmt.Errorf("failed to read inserted notice id: %w", err)
		}
	}
	slog.Info("Store AddNotice succeeded", "noticeID", id)
	return id, nil
}

// ListUndeliveredNotices returns notices whose delivered timestamp is unset.
func (s *dbStore) ListUndeliveredNotices() ([]models.Notice, error) {
	query, args, err := s.sb.
		Select("id", "notice_text", "created_at", "delivered_at").
		From("admin_notice").
		Where(sq.Eq{"delivered_at": nil}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notice query: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		slog.Error("Store ListUndeliveredNotices query failed", "error", err)
		return nil, fmt.Errorf("failed to query undelivered notices: %w", err)
	}
	defer rows.Close()

	var notices []models.Notice
	for rows.Next() {
		var n models.Notice
		var delivered sql.NullTime
		if err := rows.Scan(&n.ID, &n.Text, &n.CreatedAt, &delivered); err != nil {
			return nil, fmt.Errorf("failed to scan notice row: %w", err)
		}
		if delivered.Valid {
			n.DeliveredAt = &delivered.Time
		}
		notices = append(notices, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notice rows: %w", err)
	}
	slog.Debug("Store ListUndeliveredNotices succeeded", "count", len(notices))
	return notices, nil
}

// MarkNoticeDelivered stamps a notice's delivered timestamp.
func (s *dbStore) MarkNoticeDelivered(id int64, at time.Time) error {
	query, args, err := s.sb.
		Update("admin_notice").
		Set("delivered_at", at).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build notice update: %w", err)
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		slog.Error("Store MarkNoticeDelivered failed", "error", err, "noticeID", id)
		return fmt.Errorf("failed to mark notice %d delivered: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrNoticeNotFound
	}
	slog.Info("Store MarkNoticeDelivered succeeded", "noticeID", id)
	return nil
}
