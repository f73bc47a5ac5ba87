// Package portal is the HTTP client for the portal's sharing REST API:
// token generation, service definition upload, and publishing. The portal
// itself is an external collaborator; this package only speaks its
// documented call/response contract.
package portal
