package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/BTreeMap/GearBot/internal/models"
)

// modelColumns is the column list shared by every ppe_model read.
var modelColumns = []string{
	"id", "type_id", "name", "protect_props", "care_procedure",
	"writeoff_criteria", "operating_rules", "file_id", "active",
}

// encodeJSONField marshals v for a nullable text column; empty values
// become NULL so the column stays readable by hand.
func encodeJSONField(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case map[string]string:
		if len(t) == 0 {
			return nil, nil
		}
	case []int:
		if len(t) == 0 {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// scanner abstracts sql.Row and sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanUserFrom(sc scanner) (*models.User, error) {
	var u models.User
	var chatID sql.NullInt64
	if err := sc.Scan(&u.ID, &chatID, &u.PhoneNumber, &u.Active, &u.LastModifiedAt); err != nil {
		return nil, err
	}
	if chatID.Valid {
		u.ChatID = &chatID.Int64
	}
	return &u, nil
}

// scanUserRow scans a user from a single row lookup, passing through
// sql.ErrNoRows for the caller to classify.
func scanUserRow(row *sql.Row) (*models.User, error) {
	return scanUserFrom(row)
}

// scanUser scans a user from a result set iteration.
func scanUser(rows *sql.Rows) (*models.User, error) {
	u, err := scanUserFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user row: %w", err)
	}
	return u, nil
}

func scanModelFrom(sc scanner) (*models.PPEModel, error) {
	var m models.PPEModel
	var protect, care, writeoff, operating, fileID sql.NullString
	if err := sc.Scan(&m.ID, &m.TypeID, &m.Name, &protect, &care, &writeoff, &operating, &fileID, &m.Active); err != nil {
		return nil, err
	}
	m.ProtectProps = protect.String
	m.CareProcedure = care.String
	m.WriteoffCriteria = writeoff.String
	m.OperatingRules = operating.String
	m.FileID = fileID.String
	return &m, nil
}

// scanModelRow scans a PPE model from a single row lookup.
func scanModelRow(row *sql.Row) (*models.PPEModel, error) {
	return scanModelFrom(row)
}

// scanModel scans a PPE model from a result set iteration.
func scanModel(rows *sql.Rows) (*models.PPEModel, error) {
	m, err := scanModelFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan PPE model row: %w", err)
	}
	return m, nil
}
