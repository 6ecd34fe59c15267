package persistence

import (
	"database/sql"
	"time"
)

// SQLiteTimeLayout is fixed width so stored timestamps compare correctly as text.
const SQLiteTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatSQLiteTime renders t in UTC using SQLiteTimeLayout.
func FormatSQLiteTime(t time.Time) string {
	return t.UTC().Format(SQLiteTimeLayout)
}

// ParseSQLiteTime parses a timestamp written by FormatSQLiteTime. Values in
// plain RFC3339 are accepted too.
func ParseSQLiteTime(s string) (time.Time, error) {
	t, err := time.Parse(SQLiteTimeLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.UTC(), nil
}

// NullSQLiteTime converts an optional time into a nullable column value.
func NullSQLiteTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatSQLiteTime(*t), Valid: true}
}

// ParseNullSQLiteTime is the inverse of NullSQLiteTime.
func ParseNullSQLiteTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := ParseSQLiteTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
