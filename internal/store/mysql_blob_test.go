package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMySQLBlobEnsureSchemaCreatesTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("app_data").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS app_data").
		WillReturnResult(sqlmock.NewResult(0, 0))

	blob := MySQLBlob{DB: db, Key: "nuba_flower_tours_data"}
	if err := blob.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLBlobEnsureSchemaAddsMissingColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("app_data").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("app_data"))
	mock.ExpectQuery("information_schema\\.columns").WithArgs("app_data", "updated_at").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))
	mock.ExpectExec("ALTER TABLE app_data ADD COLUMN updated_at").
		WillReturnResult(sqlmock.NewResult(0, 0))

	blob := MySQLBlob{DB: db, Key: "k"}
	if err := blob.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLBlobLoadMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT data FROM app_data WHERE data_key").WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, err = MySQLBlob{DB: db, Key: "k"}.Load(context.Background())
	if !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestMySQLBlobSaveAndLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	payload := `{"customers":[],"users":[]}`
	mock.ExpectExec("INSERT INTO app_data").
		WithArgs("k", payload, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT data FROM app_data WHERE data_key").WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(payload))

	blob := MySQLBlob{DB: db, Key: "k"}
	if err := blob.Save(context.Background(), []byte(payload)); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := blob.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(got) != payload {
		t.Fatalf("load returned %q", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreOverMySQLSeedsEmptyTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT data FROM app_data WHERE data_key").WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	mock.ExpectExec("INSERT INTO app_data").
		WillReturnResult(sqlmock.NewResult(1, 1))

	s, err := Open(context.Background(), MySQLBlob{DB: db, Key: "k"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(s.Packages()) != 3 {
		t.Fatalf("expected seeded packages, got %d", len(s.Packages()))
	}
	if s.PersistError() != nil {
		t.Fatalf("unexpected persist error: %v", s.PersistError())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
