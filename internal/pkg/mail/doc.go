// Package mail sends transactional email such as the welcome message a new
// account receives. SMTP is the production driver; Log only writes the
// message to the structured log for local development.
package mail
