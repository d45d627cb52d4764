// Package client contains the NoteVault API client used by the CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     accounts, two-factor management, passkeys, items, activity and export.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, injects the session token via an interceptor, applies a
//     per-request timeout and maps gRPC statuses back to sentinel errors.
//
// # Error Handling
//
// Server errors arrive as gRPC statuses whose message is the text of a
// sentinel from internal/common; mapError turns them back into that sentinel,
// so callers can use errors.Is(err, common.ErrInvalidCode) and the like.
// Transport failures become ErrUnavailable.
//
// The session lives in memory only. Logout forgets it; tokens are never
// written to disk.
package client
