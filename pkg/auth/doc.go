// Package auth holds the credential verifier and the bearer token service.
//
// Passwords are stored as bcrypt hashes. Tokens are HS256 JWTs that carry
// the account id, username and role and expire 24 hours after issue. A
// token never authorizes on its own: callers re-load the account on every
// request so that deleting an account revokes its outstanding tokens.
package auth
