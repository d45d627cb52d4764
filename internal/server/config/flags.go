package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/notevault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-w int      pending second-factor validity, minutes
//	-m int      minimum password length
//	-i string   TOTP issuer
//	-r string   passkey relying party id
//	-o string   passkey origin
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-l string   log backend (slog|zap)
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-w", "-m", "-i", "-r", "-o",
		"-u", "-p", "-b", "-g", "-e", "-l",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionValidityDuration.Minutes()), "session_validity_duration (in minutes)")
	pendingValidity := fs.Int("w", int(config.PendingLoginValidityDuration.Minutes()), "pending_login_validity_duration (in minutes)")

	fs.IntVar(&config.MinPasswordLength, "m", config.MinPasswordLength, "minimum password length")
	fs.StringVar(&config.TOTPIssuer, "i", config.TOTPIssuer, "TOTP issuer")
	fs.StringVar(&config.PasskeyRPID, "r", config.PasskeyRPID, "passkey relying party id")
	fs.StringVar(&config.PasskeyOrigin, "o", config.PasskeyOrigin, "passkey origin")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogBackend, "l", config.LogBackend, "log backend (slog|zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
	config.PendingLoginValidityDuration = time.Duration(*pendingValidity) * time.Minute
}
