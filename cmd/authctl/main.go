// Command authctl exercises an auth API from the terminal: sign in,
// inspect the stored session, refresh it and sign out, using the same
// session manager applications embed.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/stardyn/authkit"
	"github.com/stardyn/authkit/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(os.Getenv("AUTH_DEBUG") == "true")
	if err := run(ctx, logger, os.Args[1:]); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	kit, err := authkit.New(ctx, cfg, authkit.Options{
		Navigator: &printNavigator{logger: logger},
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := kit.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close storage failed", "error", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch args[0] {
	case "login":
		return cmdLogin(ctx, kit, args[1:])
	case "status":
		return cmdStatus(ctx, kit)
	case "refresh":
		return cmdRefresh(ctx, kit)
	case "logout":
		return cmdLogout(ctx, kit)
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: authctl <command>

commands:
  login [email]   sign in with email and password
  status          show the current session
  refresh         exchange the refresh token
  logout          end the session`)
}

func cmdLogin(ctx context.Context, kit *authkit.Kit, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		fmt.Print("email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(line)
	}

	password, err := readPassword("password: ")
	if err != nil {
		return err
	}

	user, err := kit.Session.Login(ctx, authkit.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	if user == nil {
		fmt.Println("signed in")
		return nil
	}
	fmt.Printf("signed in as %s\n", user.DisplayName())
	if len(user.Permissions) > 0 {
		fmt.Printf("permissions: %s\n", strings.Join(user.Permissions, ", "))
	}
	return nil
}

func cmdStatus(ctx context.Context, kit *authkit.Kit) error {
	restored, err := kit.Session.Restore(ctx)
	if err != nil {
		return err
	}
	if !restored {
		fmt.Println("no active session")
		return nil
	}

	user, _ := kit.Session.Snapshot()
	if user != nil {
		fmt.Printf("signed in as %s (%s)\n", user.DisplayName(), user.Email)
	}
	if record, ok := kit.Session.TokenRecord(); ok {
		fmt.Printf("token type: %s\n", record.TokenType)
		fmt.Printf("expires:    %s\n", time.Unix(record.ExpiresAt, 0).Format(time.RFC3339))
	}
	return nil
}

func cmdRefresh(ctx context.Context, kit *authkit.Kit) error {
	restored, err := kit.Session.Restore(ctx)
	if err != nil {
		return err
	}
	if !restored {
		return fmt.Errorf("no active session")
	}
	if err := kit.Session.Refresh(ctx); err != nil {
		return err
	}
	record, _ := kit.Session.TokenRecord()
	fmt.Printf("refreshed, expires %s\n", time.Unix(record.ExpiresAt, 0).Format(time.RFC3339))
	return nil
}

func cmdLogout(ctx context.Context, kit *authkit.Kit) error {
	if _, err := kit.Session.Restore(ctx); err != nil {
		return err
	}
	if err := kit.Session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// printNavigator satisfies the navigator port for a terminal client:
// redirects become log lines instead of page loads.
type printNavigator struct {
	logger  *slog.Logger
	current string
}

func (n *printNavigator) Navigate(_ context.Context, path string, opts authkit.NavigateOptions) (bool, error) {
	n.current = path
	n.logger.Info("redirect", "to", path, "params", opts.QueryParams)
	return true, nil
}

func (n *printNavigator) CurrentURL() string {
	if n.current == "" {
		return "/"
	}
	return n.current
}
