// Package schedule_tools exposes the scheduling engine over MCP. It
// registers tools for finding free slots, listing busy windows, booking
// meetings with a Meet link, and inspecting or clearing the cache.
package schedule_tools
