package credentials

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGSourceReturnsStoredSecret(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM app_secrets WHERE name = $1`).
		WithArgs("parser_api_key").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("secret-abc"))

	src := NewPGSource(db)
	cred, err := src.Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}
	if cred != "secret-abc" {
		t.Fatalf("expected secret-abc, got %q", cred)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPGSourceMissingRowYieldsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM app_secrets WHERE name = $1`).
		WithArgs("parser_api_key").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	src := NewPGSource(db)
	cred, err := src.Credential(context.Background())
	if err != nil {
		t.Fatalf("expected missing row to be a soft miss, got %v", err)
	}
	if cred != "" {
		t.Fatalf("expected empty credential, got %q", cred)
	}
}
