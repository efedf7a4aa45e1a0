package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cosignet/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line
// flags.
//
// Supported flags (short forms):
//
//	-a string   anchor service base URL
//	-s string   anchor service shared secret
//	-d string   local SQLite database path
//	-t int      anchor request timeout, seconds
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.AnchorBaseURL, "a", config.AnchorBaseURL, "anchor service base URL")
	fs.StringVar(&config.AnchorSecret, "s", config.AnchorSecret, "anchor service shared secret")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "local database path")

	requestTimeout := fs.Int("t", int(config.RequestTimeout.Seconds()), "anchor request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
