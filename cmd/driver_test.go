package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/inferlab/unload/cmd/formatters"
)

func TestLoadDriver(t *testing.T) {
	t.Run("PostgresSchemes", func(t *testing.T) {
		for _, dbURL := range []string{
			"postgres://user@localhost/deep",
			"postgresql://user@localhost/deep",
		} {
			if _, err := LoadDriver(dbURL); err != nil {
				t.Fatalf("unexpected error for %s: %v", dbURL, err)
			}
		}
	})

	t.Run("MySQLScheme", func(t *testing.T) {
		if _, err := LoadDriver("mysql://user:pw@localhost:3306/deep"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("UnknownScheme", func(t *testing.T) {
		_, err := LoadDriver("redis://localhost/0")
		if !errors.Is(err, ErrUnknownScheme) {
			t.Fatalf("expected ErrUnknownScheme, got %v", err)
		}
	})
}

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		name   string
		rawURL string
		expect string
	}{
		{
			name:   "full URL",
			rawURL: "mysql://user:pw@db.example.com:3307/deep",
			expect: "user:pw@tcp(db.example.com:3307)/deep",
		},
		{
			name:   "default port",
			rawURL: "mysql://user@localhost/deep",
			expect: "user@tcp(localhost:3306)/deep",
		},
		{
			name:   "no credentials",
			rawURL: "mysql://localhost:3306/deep",
			expect: "tcp(localhost:3306)/deep",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			if dsn := mysqlDSN(u); dsn != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, dsn)
			}
		})
	}
}

func TestUnloadRows(t *testing.T) {
	t.Run("StreamsRowsThroughFormatter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer db.Close()

		rows := sqlmock.NewRows([]string{"id", "text"}).
			AddRow(int64(1), "hello").
			AddRow(int64(2), nil)
		mock.ExpectQuery("SELECT id,text FROM sentences").WillReturnRows(rows)

		var buf bytes.Buffer
		err = unloadRows(context.Background(), db, "SELECT id,text FROM sentences", formatters.NewTSVFormatter(), &buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		expected := "1\thello\n2\t\\N\n"
		if buf.String() != expected {
			t.Fatalf("expected output %q, got %q", expected, buf.String())
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("QueryFailureIsFatal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("failed to create sqlmock: %v", err)
		}
		defer db.Close()

		mock.ExpectQuery("SELECT \\* FROM missing").WillReturnError(errors.New("relation does not exist"))

		var buf bytes.Buffer
		err = unloadRows(context.Background(), db, "SELECT * FROM missing", formatters.NewTSVFormatter(), &buf)
		if err == nil {
			t.Fatal("expected query failure to propagate")
		}
		if buf.Len() != 0 {
			t.Fatalf("no output should be written on failure, got %q", buf.String())
		}
	})
}
