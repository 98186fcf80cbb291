package config

import (
	"io"
	"time"
)

// Config reads typed values by dotted key. Missing keys and values that
// cannot be converted yield the zero value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetUint32(key string) uint32
	GetFloat64(key string) float64

	// GetSecond, GetMinute and GetHour read an integer and scale it.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte

	// GetArray splits a comma separated value and drops empty items.
	GetArray(key string) []string
}
