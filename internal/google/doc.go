// Package google handles OAuth2 authentication for the Google Calendar
// API.
//
// It stores refresh tokens per account in the user cache directory and
// exposes a TokenProvider interface so the calendar client does not
// depend on where tokens live. The OAuth application credentials are
// read from the GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET environment
// variables.
package google
