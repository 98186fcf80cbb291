// Package jwt issues and verifies the HS512 tokens that make up a session:
// a short lived access token and a long lived refresh token. Both carry the
// same payload and are told apart by the "typ" claim.
package jwt
