// Package server implements the HTTP service mode of buildmatrix.
//
// This package provides:
//   - A matrix-resolution endpoint (POST /resolve)
//   - Project configuration and resolution-history endpoints
//   - Per-IP rate limiting
//   - Structured logging of all HTTP requests
//
// The server integrates with other packages:
//   - internal/project: Configuration document loading and lookup
//   - internal/matrix: The resolution algorithm itself
//   - internal/history: SQLite-based resolution history tracking
//
// Request handling is strict: payload size limits, Content-Type
// validation, and project-name sanitization on every path parameter.
package server
