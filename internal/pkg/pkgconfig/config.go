package pkgconfig

import "io"

// Config reads typed configuration values by key.
//
// Keys use dot notation ("server.address.http"). Implementations are
// expected to be safe for concurrent reads.
type Config interface {
	io.Closer

	GetInt(key string) int64
	GetBool(key string) bool
	GetFloat(key string) float64
	GetString(key string) string
	GetBinary(key string) []byte
	GetArray(key string) []string
	GetMap(key string) map[string]string
}
