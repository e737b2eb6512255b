// Package auth implements the DermMate credential lifecycle: account
// registration with email verification, password based login issuing HS256
// session tokens, password reset over single use side tokens, and role
// gated request authorization for the patient, dermatologist, and admin
// roles.
//
// The package is transport agnostic except for the fiber controller in
// http_controller.go and the middleware/jwtware subpackage. Storage is a
// single users table managed through bun.
package auth
