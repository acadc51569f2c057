package persistence

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// DefaultSchema is the schema used when none is configured.
const DefaultSchema = "public"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// qualified returns the sanitized schema-qualified identifier for a table or function.
func qualified(schema, name string) string {
	if schema == "" {
		schema = DefaultSchema
	}
	return pgx.Identifier{schema, name}.Sanitize()
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func qualifiedSchema(schema string) string {
	if schema == "" {
		schema = DefaultSchema
	}
	return pgx.Identifier{schema}.Sanitize()
}
