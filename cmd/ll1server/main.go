/*
Ll1server starts an ll1gen server and begins listening for new connections.

Usage:

	ll1server [flags]
	ll1server [flags] -l [[ADDRESS]:PORT]

Once started, the ll1gen server will listen for HTTP requests and respond to
them using REST protocol, allowing accounts to submit grammars for LL(1)
compilation and to test strings against them. By default, it will listen on
localhost:8080. This can be changed with the --listen/-l flag (or config via
environment var). The flag argument must be either a full address with port,
such as "192.168.0.2:6001", or just the IP address preceeded by a colon, such
as ":6001".

If a JWT token secret is not given, one will be automatically generated and
seeded with random bytes. As a consequence, in this mode of operation all
tokens are rendered invalid as soon as the server shuts down. This is
suitable for testing, but must be given via either CLI flags or environment
variable if running in production.

The flags are:

	-v, --version
		Give the current version of the ll1gen server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		LL1GEN_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable LL1GEN_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated. Note
		that any tokens issued with a random secret will become invalid as soon
		as the server shuts down.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory, such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable LL1GEN_DATABASE. If no DB driver is
		specified or an empty one is given, an in-memory database is
		automatically selected.

	-c, --config FILE
		Load additional settings from the given TOML config file. Values given
		via flags or environment variables take priority over those in the
		file.
*/
package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/ll1gen/internal/version"
	"github.com/dekarrin/ll1gen/server"
	"github.com/dekarrin/ll1gen/server/dao"
	"github.com/dekarrin/ll1gen/server/serr"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "LL1GEN_LISTEN_ADDRESS"
	EnvSecret = "LL1GEN_TOKEN_SECRET"
	EnvDB     = "LL1GEN_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the ll1gen server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagConfig  = pflag.StringP("config", "c", "", "Load settings from the given TOML config file.")
)

// fileConfig is the shape of the optional TOML config file; any value left
// unset here falls through to its environment variable or flag default.
type fileConfig struct {
	ListenAddress string `toml:"listen_address"`
	TokenSecret   string `toml:"token_secret"`
	Database      string `toml:"database"`
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (ll1gen v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	var fileCfg fileConfig
	if *flagConfig != "" {
		if _, err := toml.DecodeFile(*flagConfig, &fileCfg); err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config file: %s\n", err)
			os.Exit(1)
		}
	}

	listenAddr := fileCfg.ListenAddress
	if v := os.Getenv(EnvListen); v != "" {
		listenAddr = v
	}
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}
	if _, _, err := splitAddr(listenAddr); err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	dbConnStr := fileCfg.Database
	if v := os.Getenv(EnvDB); v != "" {
		dbConnStr = v
	}
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr == "" {
		dbConnStr = "inmem"
	}
	dbCfg, err := server.ParseDBConnString(dbConnStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	tokSecStr := fileCfg.TokenSecret
	if v := os.Getenv(EnvSecret); v != "" {
		tokSecStr = v
	}
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}

	var tokSecret []byte
	if tokSecStr != "" {
		tokSecret = []byte(tokSecStr)
		for len(tokSecret) < server.MinSecretSize {
			doubled := make([]byte, len(tokSecret)*2)
			copy(doubled, tokSecret)
			copy(doubled[len(tokSecret):], tokSecret)
			tokSecret = doubled
		}
		if len(tokSecret) > server.MaxSecretSize {
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else {
		tokSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	cfg := server.Config{
		TokenSecret: tokSecret,
		DB:          dbCfg,
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer srv.Close()
	log.Printf("DEBUG Server initialized")

	_, err = srv.Accounts().CreateAccount(context.Background(), "admin", "password", "bogus@example.com", dao.Admin)
	if err != nil && !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("ERROR could not create initial admin account: %v", err)
		os.Exit(2)
	}
	if !errors.Is(err, serr.ErrAlreadyExists) {
		log.Printf("INFO  Added initial admin account with password 'password'...")
	}

	log.Printf("INFO  Starting ll1gen server %s...", version.ServerCurrent)
	if err := srv.ListenAndServe(listenAddr); err != nil {
		log.Fatalf("FATAL server error: %s", err.Error())
	}
}

// splitAddr validates that addr is in ADDRESS:PORT or :PORT format.
func splitAddr(addr string) (host string, port int, err error) {
	parts := strings.SplitN(addr, ":", 2)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("Listen address is not in ADDRESS:PORT or :PORT format")
	}
	port, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("%q is not a valid port number", parts[1])
	}
	return parts[0], port, nil
}
