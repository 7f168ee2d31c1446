package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/portfolio/internal/config"
	"github.com/templui/portfolio/internal/ctxkeys"
	"github.com/templui/portfolio/internal/model"
	"github.com/templui/portfolio/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

const oauthStateCookie = "oauth_state"

var errOAuthFailed = errors.New("oauth sign in failed")

type oauthProvider struct {
	name    string
	config  *oauth2.Config
	userURL string
}

type AuthHandler struct {
	authService *service.AuthService
	userService *service.UserService
	providers   map[string]oauthProvider
}

func NewAuthHandler(authService *service.AuthService, userService *service.UserService, cfg *config.Config) *AuthHandler {
	providers := make(map[string]oauthProvider)

	if cfg.GoogleClientID != "" {
		providers["google"] = oauthProvider{
			name: "google",
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/google/callback",
				Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
				Endpoint:     google.Endpoint,
			},
			userURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		}
	}
	if cfg.GitHubClientID != "" {
		providers["github"] = oauthProvider{
			name: "github",
			config: &oauth2.Config{
				ClientID:     cfg.GitHubClientID,
				ClientSecret: cfg.GitHubClientSecret,
				RedirectURL:  cfg.AppURL + "/auth/github/callback",
				Scopes:       []string{"user:email"},
				Endpoint:     github.Endpoint,
			},
			userURL: "https://api.github.com/user",
		}
	}

	return &AuthHandler{
		authService: authService,
		userService: userService,
		providers:   providers,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// readCredentials accepts a JSON body or a classic form post.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, error) {
	var c credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := decodeJSON(w, r, &c)
		return c, err
	}
	c.Email = r.FormValue("email")
	c.Password = r.FormValue("password")
	return c, nil
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(w, r)
	if err != nil {
		fail(w, r, err, "Sign in failed")
		return
	}

	if strings.TrimSpace(c.Email) == "" || c.Password == "" {
		fail(w, r, service.ErrInvalidCredentials, "Sign in failed")
		return
	}

	user, err := h.authService.SignIn(r.Context(), c.Email, c.Password)
	if err != nil {
		slog.Warn("password sign in failed", "error", err, "email", c.Email)
		fail(w, r, err, "Sign in failed")
		return
	}

	h.startSession(w, r, user, http.StatusOK, success("Signed in", "Welcome back!"))
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	c, err := readCredentials(w, r)
	if err != nil {
		fail(w, r, err, "Sign up failed")
		return
	}

	user, err := h.authService.SignUp(r.Context(), c.Email, c.Password)
	if err != nil {
		fail(w, r, err, "Sign up failed")
		return
	}

	h.startSession(w, r, user, http.StatusCreated, success("Account created", "You are now signed in."))
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	if user := ctxkeys.User(r.Context()); user != nil {
		slog.Info("user signed out", "user_id", user.ID)
	}
	respond(w, r, http.StatusOK, nil, success("Signed out", "See you soon."))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		fail(w, r, service.ErrUnauthenticated, "Not signed in")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": user})
}

type passwordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in passwordChange
	err := decodeJSON(w, r, &in)
	if err != nil {
		fail(w, r, err, "Password not changed")
		return
	}

	err = h.userService.ChangePassword(r.Context(), in.CurrentPassword, in.NewPassword)
	if err != nil {
		fail(w, r, err, "Password not changed")
		return
	}

	respond(w, r, http.StatusOK, nil, success("Password changed", "Your password was updated."))
}

// OAuth redirects to the provider's consent screen.
func (h *AuthHandler) OAuth(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[r.PathValue("provider")]
	if !ok {
		fail(w, r, service.ErrNotFound, "Unknown sign in provider")
		return
	}

	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction, // APP_ENV based, r.TLS is unreliable behind load balancers
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := provider.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// OAuthCallback finishes the provider flow, signs the user in and redirects home.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("provider")
	provider, ok := h.providers[name]
	if !ok {
		fail(w, r, service.ErrNotFound, "Unknown sign in provider")
		return
	}

	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("oauth state validation failed", "provider", name, "error", err)
		fail(w, r, service.ErrForbidden, "Sign in failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   oauthStateCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code", "provider", name)
		fail(w, r, service.ErrForbidden, "Sign in failed")
		return
	}

	token, err := provider.config.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("oauth token exchange failed", "provider", name, "error", err)
		fail(w, r, errOAuthFailed, "Sign in failed")
		return
	}

	email, err := fetchOAuthEmail(r.Context(), provider, token)
	if err != nil {
		slog.Error("failed to get oauth email", "provider", name, "error", err)
		fail(w, r, errOAuthFailed, "Sign in failed")
		return
	}

	user, err := h.authService.AuthenticateOAuth(r.Context(), email, name)
	if err != nil {
		slog.Warn("oauth authentication failed", "provider", name, "error", err, "email", email)
		fail(w, r, err, "Sign in failed")
		return
	}

	jwtToken, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		fail(w, r, err, "Sign in failed")
		return
	}

	h.authService.SetJWTCookie(w, jwtToken, h.authService.TokenExpiry())
	slog.Info("user signed in with oauth", "provider", name, "user_id", user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, user *model.User, status int, n model.Notification) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		fail(w, r, err, "Sign in failed")
		return
	}

	expiresAt := h.authService.TokenExpiry()
	h.authService.SetJWTCookie(w, token, expiresAt)

	user.PasswordHash = nil
	respond(w, r, status, model.Session{User: user, Token: token, ExpiresAt: expiresAt}, n)
}

// fetchOAuthEmail reads the account email. GitHub hides private emails from
// /user, so its /user/emails list is consulted for the primary one.
func fetchOAuthEmail(ctx context.Context, provider oauthProvider, token *oauth2.Token) (string, error) {
	client := provider.config.Client(ctx, token)

	var userInfo struct {
		Email string `json:"email"`
	}
	err := getJSON(client, provider.userURL, &userInfo)
	if err != nil {
		return "", err
	}
	if userInfo.Email != "" {
		return userInfo.Email, nil
	}

	if provider.name != "github" {
		return "", errors.New("provider returned no email")
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	err = getJSON(client, "https://api.github.com/user/emails", &emails)
	if err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", errors.New("no verified primary email on github account")
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// generateOAuthState creates cryptographically secure random state token for OAuth CSRF protection
func generateOAuthState() string {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}
