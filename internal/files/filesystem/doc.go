// Package filesystem provides a narrow filesystem abstraction so file
// transforms (notably the service definition patcher) can run against an
// in-memory filesystem in tests.
//
// Two implementations are provided:
//   - OSFileSystem: real disk access; writes go through a temp file plus
//     rename so a crash mid-write never leaves a truncated document
//   - MemoryFileSystem: map-backed, for tests
package filesystem
