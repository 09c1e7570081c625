// Package toolserver implements the watchlist-manager MCP server.
//
// The server exposes the tv_controller HTTP API as MCP tools over a
// transport (stdio in production, in-memory in tests). Every tool is a
// thin proxy: it forwards the call to the controller and returns the
// raw JSON response body as text content. Controller failures become
// tool results with IsError set rather than protocol errors, so the
// model can read and react to them.
package toolserver
