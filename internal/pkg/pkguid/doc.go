// Package pkguid provides helpers for generating unique identifiers.
//
// The codebase uses these interfaces to avoid hard-coding a specific UID
// strategy. Depending on the use case you can generate:
//   - String IDs (for example UUIDs).
//   - Numeric IDs (for example Snowflake-style IDs).
//   - Raw byte IDs via Generator, which packs a 100 ns tick, a
//     same-tick sequence, and a caller-supplied node discriminator into
//     one of four fixed widths (64, 96, 128 bits, or an RFC 4122
//     version 1 UUID).
//
// Generator guarantees that two calls producing the same shape within
// one process never return equal byte sequences, and that the
// time-bearing leading bytes never decrease even when the wall clock
// steps backwards. It does not persist state, coordinate across
// processes, or hide the identifier's timestamp; discriminator
// uniqueness is the caller's job. Formatting (hex and friends) is left
// to consumers, identifiers are plain byte arrays here.
package pkguid
