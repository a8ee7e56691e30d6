package config

import (
	"flag"
	"os"
	"time"

	"github.com/dkovalev/authvault/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-b string   storage backend: postgres | dynamodb | memory
//	-d string   PostgreSQL DSN
//	-dt string  DynamoDB table name
//	-dr string  DynamoDB region
//	-de string  DynamoDB endpoint override (local tables)
//	-s string   JWT HMAC secret key
//	-i string   JWT issuer
//	-u string   JWT audience
//	-t int      access token TTL, minutes
//	-m int      max failed login attempts before lockout
//	-k string   API key expected in the X-API-KEY header
//	-o int      clock offset for stored timestamps, minutes
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-b", "-d", "-dt", "-dr", "-de", "-s", "-i", "-u", "-t", "-m", "-k", "-o",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (postgres|dynamodb|memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DynamoTable, "dt", config.DynamoTable, "DynamoDB table name")
	fs.StringVar(&config.DynamoRegion, "dr", config.DynamoRegion, "DynamoDB region")
	fs.StringVar(&config.DynamoEndpoint, "de", config.DynamoEndpoint, "DynamoDB endpoint override")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT secret key")
	fs.StringVar(&config.JWTIssuer, "i", config.JWTIssuer, "JWT issuer")
	fs.StringVar(&config.JWTAudience, "u", config.JWTAudience, "JWT audience")

	accessTokenTTL := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token TTL (in minutes)")
	fs.IntVar(&config.MaxFailedLoginAttempts, "m", config.MaxFailedLoginAttempts, "max failed login attempts")
	fs.StringVar(&config.APIKey, "k", config.APIKey, "API key for the X-API-KEY gate")
	clockOffset := fs.Int("o", int(config.ClockOffset.Minutes()), "clock offset for stored timestamps (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTokenTTL) * time.Minute
	config.ClockOffset = time.Duration(*clockOffset) * time.Minute
}
