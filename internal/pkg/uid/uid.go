// Package uid generates identifiers: snowflake numbers for rows and
// UUIDv7 strings for token ids and correlation ids.
package uid

// NumberID generates sortable numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	Generate() string
}
