package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const parserSecretName = "parser_api_key"

// PGSource reads the parser credential from the app_secrets table.
type PGSource struct {
	db *sql.DB
}

func NewPGSource(db *sql.DB) *PGSource {
	return &PGSource{db: db}
}

func (s *PGSource) Name() string { return "postgres" }

func (s *PGSource) Credential(ctx context.Context) (string, error) {
	const query = `SELECT value FROM app_secrets WHERE name = $1`

	var value string
	err := s.db.QueryRowContext(ctx, query, parserSecretName).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query app secret %s: %w", parserSecretName, err)
	}
	return value, nil
}

var _ Source = (*PGSource)(nil)
