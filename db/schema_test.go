package db

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	conn.SetMaxOpenConns(1)
	return conn
}

func TestCreateSchemaIdempotent(t *testing.T) {
	conn := openTestDB(t)
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("first CreateSchema failed: %v", err)
	}
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("second CreateSchema failed: %v", err)
	}
}

func TestIsUniqueViolation_Sqlite(t *testing.T) {
	conn := openTestDB(t)
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatalf("CreateSchema failed: %v", err)
	}

	_, err := conn.Exec(`
		INSERT INTO poll (id, title_en, title_bn, created_at)
		VALUES ('p1', 'Title', 'Title BN', $1)
	`, time.Now())
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO poll (id, title_en, title_bn, created_at)
		VALUES ('p1', 'Other', 'Other BN', $1)
	`, time.Now())
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected IsUniqueViolation to classify %v", err)
	}
}

func TestIsUniqueViolation_Classification(t *testing.T) {
	if IsUniqueViolation(nil) {
		t.Error("nil is not a unique violation")
	}
	if IsUniqueViolation(errors.New("connection refused")) {
		t.Error("generic errors are not unique violations")
	}
	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("pq 23505 should be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("pq foreign-key violations are not unique violations")
	}
}
