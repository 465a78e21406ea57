// Package identity carries the authenticated caller through request
// context.
//
// The auth middleware verifies the bearer token and stores an Identity
// in the request context; handlers retrieve it with Get. Separating
// the decoded identity from raw token parsing keeps handlers free of
// JWT concerns.
package identity
