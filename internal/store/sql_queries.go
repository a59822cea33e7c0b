package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Keys of the local_state table. The layout mirrors the conceptual key-value
// contract of the client cache.
const (
	keyAppData   = "app-data"
	keyUIState   = "ui-state"
	keyAuthToken = "auth-token"
)

func buildUpsertStateQuery(key, value string, now time.Time) (string, []interface{}, error) {
	return sq.Insert("local_state").
		Columns("key", "value", "updated_at").
		Values(key, value, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
}

func buildSelectStateQuery(key string) (string, []interface{}, error) {
	return sq.Select("value").
		From("local_state").
		Where(sq.Eq{"key": key}).
		ToSql()
}

func buildDeleteStateQuery(key string) (string, []interface{}, error) {
	return sq.Delete("local_state").
		Where(sq.Eq{"key": key}).
		ToSql()
}
