/*
Rstparse-serve starts a discourse parsing HTTP server and begins listening
for new connections.

Usage:

	rstparse-serve [flags]
	rstparse-serve [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds to them
using a small JSON REST API (see internal/httpapi). By default, it listens
on localhost:8080; this can be changed with the --listen/-l flag.

If no JWT token secret file is found, one will be generated and written to
the configured path. A bootstrap service account is created at every startup
so there is someone to authenticate as; its ID and a bearer token for it are
printed to stdout, and its secret is never printed or stored in recoverable
form.

The flags are:

	-v, --version
		Give the current version of the discourse parsing server and exit.

	-c, --config FILE
		Load server configuration from the given toml file. If not given,
		internal/config.Default() is used.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. Overrides the configuration file's server.listen_address.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/mmelodious/discourse-parsing/internal/config"
	"github.com/mmelodious/discourse-parsing/internal/httpapi"
	"github.com/mmelodious/discourse-parsing/internal/rst"
	"github.com/mmelodious/discourse-parsing/internal/store"
	"github.com/mmelodious/discourse-parsing/internal/version"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the discourse parsing server and exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Load server configuration from the given toml file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
)

// actionLabels is the fixed label set the bootstrap StubClassifier scores
// over until a trained Classifier is wired in: a shift, unary promotions to
// a nucleus span or to a couple of common satellite relations, and binary
// reduces naming the relation itself (nuclearity comes from which child was
// already promoted, not from the binary label) plus the terminal ROOT.
var actionLabels = []string{
	"S:text",
	"U:nucleus:span",
	"U:satellite:elaboration",
	"U:satellite:attribution",
	"B:elaboration",
	"B:attribution",
	"B:joint",
	"B:ROOT",
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (discourse-parsing v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	cfg := config.Default()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config: %s\n", err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	if pflag.Lookup("listen").Changed {
		cfg.Server.ListenAddress = *flagListen
	}
	if err := validateListenAddress(cfg.Server.ListenAddress); err != nil {
		fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Server.StorageDir, 0770); err != nil {
		fmt.Fprintf(os.Stderr, "Could not create storage directory: %s\n", err.Error())
		os.Exit(1)
	}

	secret, err := loadOrCreateSecret(cfg.Server.JWTSecretFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not obtain token secret: %s\n", err.Error())
		os.Exit(1)
	}

	st, err := store.Open(cfg.Server.StorageDir)
	if err != nil {
		log.Fatalf("FATAL could not open result store: %s", err.Error())
	}
	defer st.Close()

	accounts := httpapi.NewInMemAccounts()
	bootstrapAccount(accounts, secret)

	api := &httpapi.API{
		Classifier: rst.NewStubClassifier(actionLabels, -10.0),
		Config:     cfg.Beam.RST(),
		Accounts:   accounts,
		Secret:     secret,
		Store:      st,
	}

	log.Printf("INFO  Starting discourse parsing server %s on %s...", version.ServerCurrent, cfg.Server.ListenAddress)
	if err := http.ListenAndServe(cfg.Server.ListenAddress, api.Router()); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func validateListenAddress(addr string) error {
	bindParts := strings.SplitN(addr, ":", 2)
	if len(bindParts) != 2 {
		return fmt.Errorf("listen address %q is not in ADDRESS:PORT or :PORT format", addr)
	}
	if _, err := strconv.Atoi(bindParts[1]); err != nil {
		return fmt.Errorf("%q is not a valid port number", bindParts[1])
	}
	return nil
}

// loadOrCreateSecret reads the JWT signing secret from path, generating and
// persisting a new 64-byte random one on first run.
func loadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) > 0 {
		return data, nil
	}

	secret := make([]byte, 64)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("persist generated secret to %s: %w", path, err)
	}
	log.Printf("WARN  Generated new token secret at %s", path)
	return secret, nil
}

// bootstrapAccount registers a single service account so there is someone
// to authenticate as at server startup. InMemAccounts holds no state across
// restarts, so this runs -- and prints a fresh ID and token -- every time
// the server starts; a deployment that needs a stable account should swap
// in a persistent ServiceAccountRepository instead.
func bootstrapAccount(accounts *httpapi.InMemAccounts, secret []byte) {
	id := uuid.New()
	plaintext := uuid.NewString()

	hash, err := httpapi.HashSecret(plaintext)
	if err != nil {
		log.Printf("ERROR could not create bootstrap service account: %v", err)
		return
	}

	svc := httpapi.ServiceAccount{ID: id, Name: "bootstrap", SecretHash: hash}
	accounts.Put(svc)

	tok, err := httpapi.IssueToken(secret, svc)
	if err != nil {
		log.Printf("ERROR could not issue bootstrap token: %v", err)
		return
	}

	log.Printf("INFO  Bootstrap service account %s created; token valid until %s", id, time.Now().Add(24*time.Hour).Format(time.RFC3339))
	fmt.Printf("Bootstrap service account ID: %s\nBootstrap bearer token: %s\n", id, tok)
}
