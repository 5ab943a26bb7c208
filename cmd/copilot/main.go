package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/admin-copilot/copilot-go/internal/apiclient"
	"github.com/admin-copilot/copilot-go/internal/config"
	"github.com/admin-copilot/copilot-go/internal/keeper"
	"github.com/admin-copilot/copilot-go/internal/oauthflow"
	"github.com/admin-copilot/copilot-go/internal/sessionmgr"
	"github.com/admin-copilot/copilot-go/internal/tokenstore"
	"github.com/getsentry/sentry-go"
)

const usage = `usage: copilot <command> [arguments]

commands:
  login <email> <password>   authenticate with email and password
  login --google             authenticate through Google in the browser
  logout                     clear the stored session
  signup <email> <password> <first-name> <last-name>
  profile                    show the current user profile
  emails                     list email summaries
  meetings                   list meeting summaries
  projects                   list projects
`

func main() {
	slog.SetDefault(jsonLogger)
	ch := config.NewConfigHandler()
	cfg, err := ch.Config()
	if err != nil {
		slog.Error("loading the configuration failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("the config validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.DebugMode {
		logLevel.Set(slog.LevelDebug)
	}
	sentryEnabled := cfg.Monitoring.Sentry.Enabled
	if sentryEnabled {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              string(cfg.Monitoring.Sentry.Dsn),
			TracesSampleRate: cfg.Monitoring.Sentry.SampleRate,
			Environment:      cfg.Monitoring.Sentry.Environment,
		})
		if err != nil {
			slog.Error("sentry initialization failed", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	store, err := tokenstore.NewStore(tokenstore.WithConfig(cfg.Storage, cfg.Redis))
	if err != nil {
		slog.Error("token store initialization failed", "error", err)
		os.Exit(1)
	}
	client, err := apiclient.NewClient(
		apiclient.WithBaseURL(cfg.BaseURL),
		apiclient.WithTokenStore(store),
		apiclient.WithRateLimits(cfg.RateLimits),
	)
	if err != nil {
		slog.Error("api client initialization failed", "error", err)
		os.Exit(1)
	}
	flow, err := oauthflow.NewFlow(
		oauthflow.WithConfig(cfg.OAuth),
		oauthflow.WithTokenStore(store),
		oauthflow.WithExchanger(client),
	)
	if err != nil {
		slog.Error("oauth flow initialization failed", "error", err)
		os.Exit(1)
	}
	manager, err := sessionmgr.NewManager(
		sessionmgr.WithClient(client),
		sessionmgr.WithTokenStore(store),
		sessionmgr.WithFlow(flow),
		sessionmgr.WithNotifier(func(message string) { fmt.Fprintln(os.Stderr, message) }),
	)
	if err != nil {
		slog.Error("session manager initialization failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if cfg.Keeper.Enabled {
		sessionKeeper, err := keeper.NewKeeper(
			keeper.WithRefresher(client),
			keeper.WithTokenReader(store),
			keeper.WithConfig(cfg.Keeper),
		)
		if err != nil {
			slog.Error("session keeper initialization failed", "error", err)
			os.Exit(1)
		}
		if err := sessionKeeper.Start(ctx); err != nil {
			slog.Error("session keeper failed to start", "error", err)
			os.Exit(1)
		}
		defer sessionKeeper.Stop()
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(ctx, os.Args[1], os.Args[2:], client, flow, manager); err != nil {
		if sentryEnabled {
			sentry.CaptureException(err)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	command string,
	args []string,
	client *apiclient.Client,
	flow *oauthflow.Flow,
	manager *sessionmgr.Manager,
) error {
	switch command {
	case "login":
		if len(args) == 1 && args[0] == "--google" {
			return googleLogin(ctx, flow, manager)
		}
		if len(args) != 2 {
			return fmt.Errorf("login expects <email> <password> or --google")
		}
		if err := manager.Login(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", manager.Profile().User.Email)
		return nil
	case "logout":
		manager.Logout(ctx)
		fmt.Println("logged out")
		return nil
	case "signup":
		if len(args) != 4 {
			return fmt.Errorf("signup expects <email> <password> <first-name> <last-name>")
		}
		err := manager.Signup(ctx, apiclient.SignupRequest{
			Email:         args[0],
			Password:      args[1],
			FirstName:     args[2],
			LastName:      args[3],
			AgreedToTerms: true,
		})
		if err != nil {
			return err
		}
		fmt.Println("signed up, check your inbox for the verification code")
		return nil
	case "profile":
		if err := requireSession(ctx, manager); err != nil {
			return err
		}
		return printJSON(manager.Profile())
	case "emails":
		if err := requireSession(ctx, manager); err != nil {
			return err
		}
		page, err := client.ListEmailSummaries(ctx)
		if err != nil {
			return err
		}
		return printJSON(page)
	case "meetings":
		if err := requireSession(ctx, manager); err != nil {
			return err
		}
		page, err := client.ListMeetingSummaries(ctx, 1)
		if err != nil {
			return err
		}
		return printJSON(page)
	case "projects":
		if err := requireSession(ctx, manager); err != nil {
			return err
		}
		page, err := client.ListProjects(ctx)
		if err != nil {
			return err
		}
		return printJSON(page)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// googleLogin walks the full browser round trip: build the authorization URL,
// run the loopback callback server, and hand the redirect to the session
// manager.
func googleLogin(ctx context.Context, flow *oauthflow.Flow, manager *sessionmgr.Manager) error {
	server := oauthflow.NewCallbackServer(flow.CallbackAddr())
	if err := server.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
	authURL, err := flow.Begin()
	if err != nil {
		return err
	}
	fmt.Println("open this URL in your browser to continue:")
	fmt.Println(authURL)
	redirectURL, err := server.Wait(ctx)
	if err != nil {
		return err
	}
	if err := manager.Bootstrap(ctx, redirectURL); err != nil {
		return err
	}
	if manager.State() != sessionmgr.Authenticated {
		return fmt.Errorf("the login attempt did not produce a session")
	}
	fmt.Printf("logged in as %s\n", manager.Profile().User.Email)
	return nil
}

func requireSession(ctx context.Context, manager *sessionmgr.Manager) error {
	if err := manager.Bootstrap(ctx, nil); err != nil {
		return err
	}
	if manager.State() != sessionmgr.Authenticated {
		return fmt.Errorf("not logged in, run `copilot login` first")
	}
	return nil
}

func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
