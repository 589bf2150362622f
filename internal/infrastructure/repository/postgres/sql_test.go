package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	qb "github.com/riskibarqy/football-api/internal/platform/querybuilder"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert league: %w", &pq.Error{Code: "23505"})
	if !isUniqueViolation(wrapped) {
		t.Fatalf("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatalf("foreign key violation must not match")
	}
	if isUniqueViolation(errors.New("23505")) {
		t.Fatalf("plain error must not match")
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	if !isNotFound(fmt.Errorf("get league: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped sql.ErrNoRows to be not found")
	}
	if isNotFound(errors.New("boom")) {
		t.Fatalf("unexpected not found for unrelated error")
	}
}

func TestNullConversions(t *testing.T) {
	t.Parallel()

	if nullInt64ToInt64Ptr(sql.NullInt64{}) != nil {
		t.Fatalf("expected nil for null int64")
	}
	if got := nullInt64ToInt64Ptr(sql.NullInt64{Int64: 9, Valid: true}); got == nil || *got != 9 {
		t.Fatalf("unexpected int64 pointer: %v", got)
	}

	if nullTimeToTimePtr(sql.NullTime{}) != nil {
		t.Fatalf("expected nil for null time")
	}
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := nullTimeToTimePtr(sql.NullTime{Time: now, Valid: true}); got == nil || !got.Equal(now) {
		t.Fatalf("unexpected time pointer: %v", got)
	}
}

func TestUpsertChunkSizeFitsBindLimit(t *testing.T) {
	t.Parallel()

	for _, model := range []any{teamUpsertModel{}, playerUpsertModel{}, matchUpsertModel{}} {
		cols := len(columnsOf(t, model))
		if chunk := maxBindParams / cols; chunk*cols > maxBindParams || chunk < 1000 {
			t.Fatalf("unexpected chunk size %d for %T", chunk, model)
		}
	}
}

func TestUpdateColumnsAreUpsertColumns(t *testing.T) {
	t.Parallel()

	cases := []struct {
		model   any
		updates []string
	}{
		{teamUpsertModel{}, teamUpdateColumns},
		{playerUpsertModel{}, playerUpdateColumns},
		{matchUpsertModel{}, matchUpdateColumns},
	}
	for _, tc := range cases {
		cols := map[string]bool{}
		for _, col := range columnsOf(t, tc.model) {
			cols[col] = true
		}
		if !cols["external_ref"] {
			t.Fatalf("%T must carry external_ref", tc.model)
		}
		for _, col := range tc.updates {
			if !cols[col] {
				t.Fatalf("%T update column %q is not inserted", tc.model, col)
			}
			if col == "external_ref" {
				t.Fatalf("%T must not overwrite its conflict key", tc.model)
			}
		}
	}
}

func TestOptionalString(t *testing.T) {
	t.Parallel()

	if optionalString("") != nil {
		t.Fatalf("expected nil for empty string")
	}
	if got := optionalString("x"); got == nil || *got != "x" {
		t.Fatalf("unexpected optional string: %v", got)
	}
}

func columnsOf(t *testing.T, model any) []string {
	t.Helper()

	cols, err := qb.ModelColumns(model)
	if err != nil {
		t.Fatalf("model columns for %T: %v", model, err)
	}
	return cols
}
