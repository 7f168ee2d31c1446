package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/templui/portfolio/internal/client"
	"github.com/templui/portfolio/internal/logger"
	"github.com/templui/portfolio/internal/model"
)

// Env is the state shared by every command: flags, the API client and the
// stored session token.
type Env struct {
	ServerURL string
	TokenFile string
	Owner     string
	Verbose   bool

	Client *client.Client
	Out    io.Writer
}

func (e *Env) Flags(root *cobra.Command) {
	f := root.PersistentFlags()
	f.StringVar(&e.ServerURL, "server", envOr("PORTFOLIO_URL", "http://localhost:8090"), "portfolio server URL")
	f.StringVar(&e.TokenFile, "token-file", defaultTokenFile(), "where the session token is kept")
	f.StringVar(&e.Owner, "owner", os.Getenv("PORTFOLIO_OWNER"), "user id whose profile is shown while signed out")
	f.BoolVarP(&e.Verbose, "verbose", "v", false, "debug logging")
}

// Connect builds the client and resumes the stored session, if any.
func (e *Env) Connect(ctx context.Context) error {
	slog.SetDefault(logger.New(os.Stderr, e.Verbose, ""))
	if e.Out == nil {
		e.Out = os.Stdout
	}

	c, err := client.New(e.ServerURL,
		client.WithNotifier(notify),
		client.WithDefaultOwner(e.Owner),
	)
	if err != nil {
		return err
	}
	e.Client = c

	token, err := os.ReadFile(e.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	_, err = c.Session.Restore(ctx, strings.TrimSpace(string(token)))
	if sessionRejected(err) {
		slog.Debug("stored session rejected", "error", err)
		e.forgetToken()
		return nil
	}
	if err != nil {
		slog.Warn("could not resume stored session", "error", err)
	}
	return nil
}

// sessionRejected reports whether the server refused the token itself, as
// opposed to being unreachable or failing.
func sessionRejected(err error) bool {
	var be *client.BackendError
	return errors.As(err, &be) && be.Status == http.StatusUnauthorized
}

func (e *Env) saveToken(token string) error {
	err := os.MkdirAll(filepath.Dir(e.TokenFile), 0o700)
	if err != nil {
		return err
	}
	return os.WriteFile(e.TokenFile, []byte(token+"\n"), 0o600)
}

func (e *Env) forgetToken() {
	err := os.Remove(e.TokenFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove token file", "path", e.TokenFile, "error", err)
	}
}

func (e *Env) print(v any) error {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readJSON decodes a JSON document from path, or stdin when path is "-".
func readJSON(path string, v any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	return nil
}

func notify(n model.Notification) {
	label := n.Title
	if label == "" {
		label = n.Variant
	}
	if n.Description == "" {
		fmt.Fprintln(os.Stderr, label)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", label, n.Description)
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".portfolio-token"
	}
	return filepath.Join(dir, "portfolio", "token")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
