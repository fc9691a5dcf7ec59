// Package client talks to the gophdrive REST backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     the account flows (register, OTP verification, login, activation,
//     password reset) and the file endpoints (list, upload, download, delete).
//  2. A concrete HTTP implementation (see HTTPClient) that resolves paths
//     against a configurable base URL, attaches `Authorization: Bearer` from
//     a TokenSource and maps failures to sentinel errors.
//
// # Error Handling
//
// Transport failures and timeouts wrap ErrUnavailable. Every non-2xx reply
// is an *APIError carrying the status and the body's `message`; a 401
// additionally matches ErrUnauthorized with errors.Is. ServerMessage extracts
// the message for display.
//
// # Downloads
//
// The download endpoint answers either with JSON `{url}` or with the file
// bytes. Download reports which one through models.Download; the caller
// owns and must close the body of a streamed reply.
package client
