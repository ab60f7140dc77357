package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-token-server/authcode"
	authcodettl "github.com/jrsteele09/go-token-server/authcode/ttlstore"
	"github.com/jrsteele09/go-token-server/clients"
	fakeclientrepo "github.com/jrsteele09/go-token-server/clients/fakerepo"
	"github.com/jrsteele09/go-token-server/grants"
	"github.com/jrsteele09/go-token-server/internal/config"
	"github.com/jrsteele09/go-token-server/oauth2"
	"github.com/jrsteele09/go-token-server/server"
	"github.com/jrsteele09/go-token-server/token"
	tokenttl "github.com/jrsteele09/go-token-server/token/ttlstore"
	"github.com/jrsteele09/go-token-server/users"
	fakeuserrepo "github.com/jrsteele09/go-token-server/users/repofake"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	services, closeStores, err := buildServices(c)
	if err != nil {
		return fmt.Errorf("buildServices: %w", err)
	}
	defer closeStores()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: server.New(c, services)}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildServices wires the token-issuance core against in-process stores:
// TTL-backed stores for codes and tokens, plain in-memory repos for clients
// and users. Swapping in persistent repos only touches this function.
func buildServices(c config.Config) (server.Services, func(), error) {
	clientRepo := fakeclientrepo.NewFakeClientRepo()
	userRepo := fakeuserrepo.NewFakeUserRepo()
	if err := bootstrap(clientRepo, userRepo); err != nil {
		return server.Services{}, nil, fmt.Errorf("bootstrap: %w", err)
	}

	codeStore := authcodettl.NewCodeStore()
	accessStore := tokenttl.NewAccessTokenStore(tokenttl.DefaultRetention)
	refreshStore := tokenttl.NewRefreshTokenStore(tokenttl.DefaultRetention)
	closeStores := func() {
		codeStore.Close()
		accessStore.Close()
		refreshStore.Close()
	}

	codeService := authcode.NewService(codeStore, token.UUIDGenerator{}, c.GetAuthCodeTTL())

	issuer := grants.NewIssuer(accessStore, refreshStore, token.UUIDGenerator{}, c,
		grants.WithRefreshGenerator(token.NewRandomGenerator(c.GetRefreshTokenLength())),
		grants.WithComposeKeyGenerator(token.DigestComposeKeyGenerator{}),
	)

	dispatcher := grants.NewDispatcher()
	dispatcher.Register(oauth2.AuthorizationCodeGrant, grants.NewAuthorizationCodeGranter(codeService, issuer))
	dispatcher.Register(oauth2.ClientCredentialsGrant, grants.NewClientCredentialsGranter(issuer))
	dispatcher.Register(oauth2.PasswordGrant, grants.NewPasswordGranter(users.NewPasswordAuthenticator(userRepo), issuer))
	dispatcher.Register(oauth2.ImplicitGrant, grants.NewImplicitGranter(issuer))
	dispatcher.Register(oauth2.RefreshTokenGrant, grants.NewRefreshTokenGranter(accessStore, refreshStore, issuer))

	return server.Services{
		Clients:    clientRepo,
		Codes:      codeService,
		Dispatcher: dispatcher,
		Reader:     token.NewReadService(accessStore, userRepo),
		Revoker:    token.NewClientRevokeService(accessStore, refreshStore),
	}, closeStores, nil
}

// bootstrap seeds an initial confidential client (and optionally an initial
// user) from the environment so a fresh instance is usable immediately.
func bootstrap(clientRepo clients.Repo, userRepo users.Repo) error {
	clientID := os.Getenv("BOOTSTRAP_CLIENT_ID")
	clientSecret := os.Getenv("BOOTSTRAP_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		if err := clientRepo.Upsert(&clients.Client{
			ID:          clientID,
			Type:        clients.ClientTypeConfidential,
			Description: "Bootstrap client",
			Secret:      clientSecret,
			Scopes:      []string{"admin"},
			GrantTypes: []oauth2.GrantType{
				oauth2.AuthorizationCodeGrant,
				oauth2.ClientCredentialsGrant,
				oauth2.PasswordGrant,
				oauth2.RefreshTokenGrant,
			},
		}); err != nil {
			return fmt.Errorf("seed client: %w", err)
		}
	}

	username := os.Getenv("BOOTSTRAP_USERNAME")
	password := os.Getenv("BOOTSTRAP_PASSWORD")
	if username != "" && password != "" {
		hash, err := users.HashPassword(password)
		if err != nil {
			return fmt.Errorf("hash bootstrap password: %w", err)
		}
		if err := userRepo.Upsert(&users.User{
			Username:     username,
			PasswordHash: hash,
			DateJoined:   time.Now(),
			Verified:     true,
		}); err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
	}

	return nil
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
