package store

import (
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// documentRow is the storage shape shared by every collection: a few indexed
// columns plus the full JSON document.
type documentRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	Document  []byte    `db:"document"`
}

func newDocumentRow(id, userID string, createdAt time.Time, doc any) (*documentRow, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document %s: %w", id, err)
	}

	return &documentRow{
		ID:        id,
		UserID:    userID,
		CreatedAt: createdAt,
		Document:  data,
	}, nil
}

func (r *documentRow) decode(out any) error {
	if err := json.Unmarshal(r.Document, out); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", r.ID, err)
	}
	return nil
}
