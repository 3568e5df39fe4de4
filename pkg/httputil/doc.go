// Package httputil provides the HTTP plumbing shared by blockplan's API
// handlers.
//
// # Responses
//
// [WriteJSON] encodes a value with a status code. [WriteError] maps coded
// errors from pkg/errors to a status and a JSON body:
//
//	{"error": {"code": "NO_ANCHOR", "message": "...", "request_id": "..."}}
//
// # Request bodies
//
// [DecodeJSON] and [ReadBody] cap the body size. Oversized bodies fail with
// TOO_LARGE (413) and malformed JSON with INVALID_INPUT (400).
//
// # Request IDs
//
// [RequestID] is middleware that assigns every request an ID, reusing a
// well-formed incoming X-Request-ID header or generating a UUID. The ID is
// echoed in the response header and available via [RequestIDFrom].
package httputil
