// Package cmd implements the command-line interface for bookable.
//
// This package provides the following commands:
//   - auth: Authorize access to a Google account and store the token
//   - slots: Find bookable meeting slots on the calendar
//   - busy: List merged busy windows for a time range
//   - book: Create an event with a Google Meet link for a chosen slot
//   - serve: Start the MCP server to provide scheduling tools for AI assistants
package cmd
