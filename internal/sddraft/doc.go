// Package sddraft rewrites configuration properties in service definition
// draft documents (.sddraft).
//
// A draft is the intermediate XML artifact produced by the packaging step
// before a tool is staged and published as a hosted service. Its Definition
// element carries a ConfigurationProperties property set: an ordered
// sequence of key/value property nodes controlling server-side execution
// behavior. The patcher guarantees a named property exists with a given
// value while leaving every other node untouched, in document order.
//
// The main use is enabling job directory reuse (reusejobdir=true) on
// synchronous services, which skips per-job directory setup on the server.
//
// The operation is idempotent on success and is NOT safe for concurrent
// invocation against the same path; callers must serialize access.
package sddraft
