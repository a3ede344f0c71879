package v1

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/members-web/internal/core/domain"
	logicv1 "github.com/duynhne/members-web/internal/logic/v1"
	"github.com/duynhne/members-web/internal/logging"
	"github.com/duynhne/members-web/internal/session"
	"github.com/duynhne/members-web/internal/validate"
	"github.com/duynhne/members-web/middleware"
)

// memberImages is the fixed set the members page picks from uniformly.
var memberImages = []string{"image1.jpg", "image2.jpg", "image3.jpg"}

// Handler groups the page handlers of the site.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth      *logicv1.AuthService
	sessions  *session.Manager
	staticDir string
}

// NewHandler creates a new Handler.
func NewHandler(auth *logicv1.AuthService, sessions *session.Manager, staticDir string) *Handler {
	return &Handler{auth: auth, sessions: sessions, staticDir: staticDir}
}

// RegisterRoutes registers every page route plus the static/404 fallback.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Home)
	r.GET("/signup", h.SignupForm)
	r.POST("/signupSubmit", h.SignupSubmit)
	r.GET("/login", h.LoginForm)
	r.POST("/loginSubmit", h.LoginSubmit)
	r.GET("/members", h.Members)
	r.GET("/logout", h.Logout)
	r.GET("/nosql-injection", h.InjectionProbe)
	r.NoRoute(h.NotFound)
}

// Home renders the landing page according to session state.
func (h *Handler) Home(c *gin.Context) {
	st := h.sessions.Get(c).State()
	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Authenticated": st.Authenticated,
		"Username":      st.Username,
	})
}

// SignupForm renders the signup form.
func (h *Handler) SignupForm(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.tmpl", nil)
}

// SignupSubmit validates the form, creates the user and authenticates the
// session. Validation failures render the first violation inline; nothing is
// inserted on a partial form.
func (h *Handler) SignupSubmit(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.signup_submit", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	var req domain.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		logger.Info().Err(err).Msg("Signup validation failed")
		c.HTML(http.StatusOK, "signup_error.tmpl", gin.H{
			"Message": validate.FirstViolation(err),
		})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	name, err := h.auth.SignUp(ctx, req)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Signup failed")
		h.internalError(c)
		return
	}

	if err := h.sessions.Authenticate(c, name); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Session create failed")
		h.internalError(c)
		return
	}

	logger.Info().Msg("Signup successful")
	c.Redirect(http.StatusFound, "/")
}

// LoginForm renders the login form.
func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", nil)
}

// LoginSubmit verifies credentials and authenticates the session. Wrong
// email and wrong password render the same retry prompt.
func (h *Handler) LoginSubmit(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login_submit", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		// Missing fields get the same generic prompt as bad credentials.
		c.HTML(http.StatusOK, "login_error.tmpl", nil)
		return
	}

	name, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, logicv1.ErrInvalidCredentials), errors.Is(err, logicv1.ErrUserNotFound):
			logger.Info().Err(err).Msg("Login rejected")
			c.HTML(http.StatusOK, "login_error.tmpl", nil)
		default:
			logger.Error().Err(err).Msg("Login failed")
			h.internalError(c)
		}
		return
	}

	if err := h.sessions.Authenticate(c, name); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Session create failed")
		h.internalError(c)
		return
	}

	logger.Info().Msg("Login successful")
	c.Redirect(http.StatusFound, "/")
}

// Members renders the members-only page with a uniformly random image, or
// redirects anonymous visitors home without leaking any content.
func (h *Handler) Members(c *gin.Context) {
	sess := h.sessions.Get(c)
	if !sess.Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.HTML(http.StatusOK, "members.tmpl", gin.H{
		"Username": sess.Username(),
		"Image":    memberImages[rand.IntN(len(memberImages))],
	})
}

// Logout destroys the session and redirects home.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Destroy(c); err != nil {
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("Session destroy failed")
	}
	c.Redirect(http.StatusFound, "/")
}

// InjectionProbe demonstrates boundary validation of a document-store query.
// The user parameter must be a plain string: operator-shaped keys such as
// user[$ne]=x never reach the data layer.
func (h *Handler) InjectionProbe(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.injection_probe", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	username, err := validate.PlainQueryValue(c.Request.URL.Query(), "user")
	if err != nil {
		if errors.Is(err, validate.ErrMissingParam) {
			c.HTML(http.StatusOK, "injection_usage.tmpl", nil)
			return
		}
		span.SetAttributes(attribute.Bool("injection.detected", true))
		logger.Warn().Err(err).Msg("Injection attempt detected")
		c.HTML(http.StatusOK, "injection_attack.tmpl", nil)
		return
	}

	rows, err := h.auth.LookupMembers(ctx, username)
	if err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Member lookup failed")
		h.internalError(c)
		return
	}

	logger.Info().Int("matches", len(rows)).Str("user", username).Msg("Literal lookup")
	c.HTML(http.StatusOK, "injection_hello.tmpl", gin.H{"Username": username})
}

// NotFound serves static assets for unmatched GET paths and a plain 404 for
// everything else.
func (h *Handler) NotFound(c *gin.Context) {
	if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
		name := filepath.Join(h.staticDir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
			c.File(name)
			return
		}
	}
	c.String(http.StatusNotFound, "Page not found - 404")
}

func (h *Handler) internalError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "internal_error.tmpl", nil)
}
