package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/templui/portfolio/internal/app"
	"github.com/templui/portfolio/internal/cache"
	"github.com/templui/portfolio/internal/db"
	"github.com/templui/portfolio/internal/handler"
	"github.com/templui/portfolio/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	checks := map[string]handler.Check{
		"db": app.DB.PingContext,
		"migrations": func(ctx context.Context) error {
			version, err := db.SchemaVersion(ctx, app.DB.DB, app.Cfg.DBDriver)
			if err == nil && version == 0 {
				err = errors.New("no migrations applied")
			}
			return err
		},
	}
	if redisStore, ok := app.Cache.(*cache.Redis); ok {
		checks["redis"] = redisStore.Ping
	}
	health := handler.NewHealthHandler(checks)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.Cfg)
	portfolio := handler.NewPortfolioHandler(app.PortfolioService)
	profile := handler.NewProfileHandler(app.ProfileService)
	projects := handler.NewProjectHandler(app.ProjectService)
	projectImages := handler.NewImageHandler(app.ProjectService.UploadImage)
	certificates := handler.NewCertificateHandler(app.CertificateService)
	certificateImages := handler.NewImageHandler(app.CertificateService.UploadImage)
	problems := handler.NewDSAProblemHandler(app.DSAProblemService)
	contact := handler.NewContactHandler(app.ContactService)
	realtime := handler.NewRealtimeHandler(app.Hub)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /auth/signin", rateLimiter(auth.SignIn))
	mux.HandleFunc("POST /auth/signup", rateLimiter(auth.SignUp))
	mux.HandleFunc("POST /auth/signout", auth.SignOut)
	mux.HandleFunc("GET /auth/me", auth.Me)
	mux.HandleFunc("GET /auth/{provider}", rateLimiter(auth.OAuth))
	mux.HandleFunc("GET /auth/{provider}/callback", rateLimiter(auth.OAuthCallback))

	// Read-only content
	mux.HandleFunc("GET /api/portfolio", portfolio.Show)
	mux.HandleFunc("GET /api/profile", profile.Show)
	mux.HandleFunc("GET /api/projects", projects.List)
	mux.HandleFunc("GET /api/certificates", certificates.List)
	mux.HandleFunc("GET /api/dsa-problems", problems.List)

	// Realtime change feed
	mux.HandleFunc("GET /realtime", realtime.Subscribe)

	// Contact relay (cross-origin, rate limited)
	cors := middleware.CORS(app.Cfg.CORSAllowOrigin)
	contactLimiter := middleware.RateLimitContact()
	mux.HandleFunc("OPTIONS /api/contact", cors(contact.Send))
	mux.HandleFunc("POST /api/contact", cors(contactLimiter(contact.Send)))

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	// Account
	mux.HandleFunc("PUT /auth/password", middleware.RequireAuth(auth.ChangePassword))

	// Profile
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.Update))
	mux.HandleFunc("POST /api/profile/avatar", middleware.RequireAuth(profile.UploadAvatar))

	// Projects
	mux.HandleFunc("POST /api/projects", middleware.RequireAuth(projects.Create))
	mux.HandleFunc("POST /api/projects/image", middleware.RequireAuth(projectImages.Upload))
	mux.HandleFunc("PATCH /api/projects/{id}", middleware.RequireAuth(projects.Update))
	mux.HandleFunc("DELETE /api/projects/{id}", middleware.RequireAuth(projects.Delete))

	// Certificates
	mux.HandleFunc("POST /api/certificates", middleware.RequireAuth(certificates.Create))
	mux.HandleFunc("POST /api/certificates/image", middleware.RequireAuth(certificateImages.Upload))
	mux.HandleFunc("PATCH /api/certificates/{id}", middleware.RequireAuth(certificates.Update))
	mux.HandleFunc("DELETE /api/certificates/{id}", middleware.RequireAuth(certificates.Delete))

	// DSA problems
	mux.HandleFunc("POST /api/dsa-problems", middleware.RequireAuth(problems.Create))
	mux.HandleFunc("PATCH /api/dsa-problems/{id}", middleware.RequireAuth(problems.Update))
	mux.HandleFunc("DELETE /api/dsa-problems/{id}", middleware.RequireAuth(problems.Delete))

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders and CSRF cookies)
		middleware.RequestLogging,
		middleware.SecurityHeaders,
		middleware.Auth(app.AuthService),
		middleware.CSRFProtection, // after Auth: bearer requests are exempt
	)

	return handler
}
