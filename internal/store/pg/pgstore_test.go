package pg

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestLoad(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`select data from kv_state`).
		WithArgs("rollcall-employees").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`[]`)))

	data, ok, err := s.Load(context.Background(), "rollcall-employees")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok || string(data) != `[]` {
		t.Fatalf("Load = %q ok=%v", data, ok)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoadMissingKey(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery(`select data from kv_state`).
		WithArgs("rollcall-attendance").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))

	_, ok, err := s.Load(context.Background(), "rollcall-attendance")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("absent key reported present")
	}
}

func TestSaveUpserts(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`insert into kv_state`).
		WithArgs("rollcall-org-settings", []byte(`{"name":"Acme"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Save(context.Background(), "rollcall-org-settings", []byte(`{"name":"Acme"}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDelete(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec(`delete from kv_state`).
		WithArgs("rollcall-employees").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.Delete(context.Background(), "rollcall-employees"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}
