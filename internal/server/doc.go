// Package server provides the HTTP side surfaces of the application:
// a dedicated Prometheus metrics endpoint and liveness/readiness
// probes. The MCP tool surface itself runs over stdio and lives in the
// tools packages; this server only carries observability traffic.
package server
