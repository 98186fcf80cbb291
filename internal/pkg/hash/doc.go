// Package hash hashes and verifies secrets.
//
// Bcrypt and Argon2id are password hashers; HMACSHA256 is a keyed digest
// used where a deterministic value is needed, such as cache keys derived
// from phone numbers.
package hash
