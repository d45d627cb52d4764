// Package cli provides the interactive NoteVault command-line client.
//
// It wires configuration, the gRPC API client and the client services into a
// read-eval-print loop. Notes are encrypted locally with a per-item password
// before upload and decrypted locally after download; the server never sees
// note text or item passwords.
//
// Key features:
//   - register / login (with a second-factor prompt) / logout
//   - 2fa-setup / 2fa-disable / backup-codes
//   - save / edit / list / open / delete
//   - passwd / delete-account / activity / export
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
