// Package common contains shared constants and sentinel errors used across
// NoteVault components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// session token on outbound requests.
const AccessTokenHeaderName = "access_token"

// UserAgentHeaderName is the metadata key clients use to identify themselves.
// It is recorded in the activity log.
const UserAgentHeaderName = "user-agent"
