package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/havenrealty/agentdesk/internal/api/metrics"
	"github.com/havenrealty/agentdesk/internal/models"
	"github.com/havenrealty/agentdesk/internal/repository"
	"github.com/havenrealty/agentdesk/internal/service"
	"github.com/havenrealty/agentdesk/internal/session"
	"github.com/havenrealty/agentdesk/internal/validation"
)

//go:embed templates/*.html
var templatesFS embed.FS

// genericFailure is the only message shown to users when a write fails
// for reasons they cannot fix; the cause goes to the log, not the page.
const genericFailure = "Something went wrong. Please try again."

// Handler wires the form endpoints to the service layer.
type Handler struct {
	svc      service.Service
	accounts validation.AccountLookup
	clients  validation.ClientLookup
	sessions *session.Manager
	flash    session.FlashStore
	ping     func(ctx context.Context) error
	logger   zerolog.Logger
}

// NewHandler creates a Handler. accounts and clients are the validation
// lookups (backed by the repository in production); ping checks storage
// liveness for /healthz and may be nil.
func NewHandler(
	svc service.Service,
	accounts validation.AccountLookup,
	clients validation.ClientLookup,
	sessions *session.Manager,
	flash session.FlashStore,
	ping func(ctx context.Context) error,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		svc:      svc,
		accounts: accounts,
		clients:  clients,
		sessions: sessions,
		flash:    flash,
		ping:     ping,
		logger:   logger,
	}
}

// SetupRoutes installs templates, middleware and all routes on the router.
func (h *Handler) SetupRoutes(router *gin.Engine) {
	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html"))
	router.SetHTMLTemplate(tmpl)

	router.Use(MetricsMiddleware())

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/login", h.ShowLogin)
	router.POST("/login", h.Login)
	router.POST("/logout", h.Logout)

	authed := router.Group("/", RequireAgent(h.sessions, h.svc))
	{
		authed.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/clients") })
		authed.GET("/clients", h.ListClients)
		authed.GET("/clients/new", h.NewClientForm)
		authed.POST("/clients", h.CreateClient)
		authed.GET("/properties", h.ListProperties)
		authed.GET("/viewings", h.ListViewings)
		authed.GET("/viewings/new", h.NewViewingForm)
		authed.POST("/viewings", h.CreateViewing)
		authed.GET("/inquiries", h.ListInquiries)
	}
}

var templateFuncs = template.FuncMap{
	"datetime": func(t time.Time) string { return t.Format("Mon, 2 Jan 2006 15:04") },
	"date":     func(t time.Time) string { return t.Format("2 Jan 2006") },
	"price": func(cents int64) string {
		dollars := cents / 100
		if dollars < 1000 {
			return fmt.Sprintf("$%d", dollars)
		}
		if dollars < 1000000 {
			return fmt.Sprintf("$%d,%03d", dollars/1000, dollars%1000)
		}
		return fmt.Sprintf("$%d,%03d,%03d", dollars/1000000, (dollars/1000)%1000, dollars%1000)
	},
}

// Health reports process and storage liveness.
func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Authentication

func (h *Handler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Email": ""})
}

func (h *Handler) Login(c *gin.Context) {
	var form models.LoginForm
	_ = c.ShouldBind(&form)

	account, err := h.svc.Login(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.HTML(http.StatusOK, "login.html", gin.H{
				"Error": "Invalid email or password.",
				"Email": form.Email,
			})
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": genericFailure, "Email": form.Email})
		return
	}

	if account.Role != models.RoleAgent {
		c.HTML(http.StatusOK, "login.html", gin.H{
			"Error": "This portal is for agents only.",
			"Email": form.Email,
		})
		return
	}

	token, err := h.sessions.Issue(account.ID, account.Role)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to issue session")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"Error": genericFailure, "Email": form.Email})
		return
	}

	c.SetCookie(session.CookieName, token, int(h.sessions.TTL().Seconds()), "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/clients")
}

func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// Clients

func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.svc.Clients(c.Request.Context())
	if err != nil {
		h.renderError(c, "clients.html", err)
		return
	}
	c.HTML(http.StatusOK, "clients.html", gin.H{"Clients": clients, "Active": "clients"})
}

func (h *Handler) NewClientForm(c *gin.Context) {
	c.HTML(http.StatusOK, "client_new.html", gin.H{
		"Form":   models.ClientCreationForm{},
		"Active": "clients",
	})
}

// CreateClient handles the client creation form: validate everything,
// re-render with the full error list and echoed input on any violation,
// otherwise run the transactional write and show a success banner.
// Password fields are never echoed back.
func (h *Handler) CreateClient(c *gin.Context) {
	principal, _ := PrincipalFromContext(c)

	var form models.ClientCreationForm
	_ = c.ShouldBind(&form)

	cmd, verrs, err := validation.ValidateClientCreation(c.Request.Context(), form, h.accounts)
	if err != nil {
		h.logger.Error().Err(err).Msg("client creation validation lookup failed")
		h.renderClientForm(c, form, validation.ErrorList{genericFailure}, "")
		return
	}
	if verrs.HasErrors() {
		metrics.FormValidationFailuresTotal.WithLabelValues("client_creation").Inc()
		h.renderClientForm(c, form, verrs, "")
		return
	}

	_, err = h.svc.CreateClient(c.Request.Context(), cmd, principal.AgentID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost the race after the pre-check passed; report it like
			// any other validation failure.
			h.renderClientForm(c, form, validation.ErrorList{"An account with this email already exists."}, "")
			return
		}
		h.logger.Error().Err(err).Msg("client creation failed")
		h.renderClientForm(c, form, validation.ErrorList{genericFailure}, "")
		return
	}

	metrics.ClientsCreatedTotal.Inc()
	h.renderClientForm(c, models.ClientCreationForm{}, nil, "Client account created.")
}

func (h *Handler) renderClientForm(c *gin.Context, form models.ClientCreationForm, errs validation.ErrorList, success string) {
	form.Password = ""
	form.ConfirmPassword = ""

	c.HTML(http.StatusOK, "client_new.html", gin.H{
		"Form":    form,
		"Errors":  errs,
		"Success": success,
		"Active":  "clients",
	})
}

// Properties

func (h *Handler) ListProperties(c *gin.Context) {
	principal, _ := PrincipalFromContext(c)

	properties, err := h.svc.Properties(c.Request.Context(), principal.AgentID)
	if err != nil {
		h.renderError(c, "properties.html", err)
		return
	}
	c.HTML(http.StatusOK, "properties.html", gin.H{"Properties": properties, "Active": "properties"})
}

// Viewings

func (h *Handler) ListViewings(c *gin.Context) {
	principal, _ := PrincipalFromContext(c)

	flash, err := h.flash.Take(c.Request.Context(), principal.SessionID)
	if err != nil {
		// A lost flash is not worth failing the page over.
		h.logger.Warn().Err(err).Msg("failed to take flash message")
		flash = ""
	}

	viewings, err := h.svc.Viewings(c.Request.Context(), principal.AgentID)
	if err != nil {
		h.renderError(c, "viewings.html", err)
		return
	}
	c.HTML(http.StatusOK, "viewings.html", gin.H{
		"Viewings": viewings,
		"Flash":    flash,
		"Active":   "viewings",
	})
}

func (h *Handler) NewViewingForm(c *gin.Context) {
	h.renderViewingForm(c, models.ViewingForm{}, nil)
}

// CreateViewing handles the viewing scheduling form. Success redirects to
// the viewing list with a one-time flash; any failure re-renders the form
// with the error list and echoed selections.
func (h *Handler) CreateViewing(c *gin.Context) {
	principal, _ := PrincipalFromContext(c)

	var form models.ViewingForm
	_ = c.ShouldBind(&form)

	cmd, verrs, err := validation.ValidateViewingScheduling(c.Request.Context(), form, h.clients)
	if err != nil {
		h.logger.Error().Err(err).Msg("viewing validation lookup failed")
		h.renderViewingForm(c, form, validation.ErrorList{genericFailure})
		return
	}
	if verrs.HasErrors() {
		metrics.FormValidationFailuresTotal.WithLabelValues("viewing_scheduling").Inc()
		h.renderViewingForm(c, form, verrs)
		return
	}

	_, err = h.svc.ScheduleViewing(c.Request.Context(), cmd, principal.AgentID)
	if err != nil {
		if errors.Is(err, service.ErrNotListingAgent) {
			h.renderViewingForm(c, form, validation.ErrorList{"You can only schedule viewings for properties you list."})
			return
		}
		h.logger.Error().Err(err).Msg("viewing scheduling failed")
		h.renderViewingForm(c, form, validation.ErrorList{genericFailure})
		return
	}

	metrics.ViewingsScheduledTotal.Inc()
	if err := h.flash.Put(c.Request.Context(), principal.SessionID, "Viewing scheduled."); err != nil {
		h.logger.Warn().Err(err).Msg("failed to store flash message")
	}
	c.Redirect(http.StatusSeeOther, "/viewings")
}

func (h *Handler) renderViewingForm(c *gin.Context, form models.ViewingForm, errs validation.ErrorList) {
	principal, _ := PrincipalFromContext(c)
	ctx := c.Request.Context()

	properties, err := h.svc.Properties(ctx, principal.AgentID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load properties for viewing form")
		errs = append(errs, genericFailure)
	}
	clients, err := h.svc.Clients(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load clients for viewing form")
		errs = append(errs, genericFailure)
	}

	c.HTML(http.StatusOK, "viewing_new.html", gin.H{
		"Form":       form,
		"Errors":     errs,
		"Properties": properties,
		"Clients":    clients,
		"Active":     "viewings",
	})
}

// Inquiries

func (h *Handler) ListInquiries(c *gin.Context) {
	principal, _ := PrincipalFromContext(c)

	inquiries, err := h.svc.Inquiries(c.Request.Context(), principal.AgentID)
	if err != nil {
		h.renderError(c, "inquiries.html", err)
		return
	}
	c.HTML(http.StatusOK, "inquiries.html", gin.H{"Inquiries": inquiries, "Active": "inquiries"})
}

// renderError logs the cause and renders the page with a generic message;
// storage errors never reach the page verbatim.
func (h *Handler) renderError(c *gin.Context, page string, err error) {
	h.logger.Error().Err(err).Str("page", page).Msg("page render failed")
	c.HTML(http.StatusInternalServerError, page, gin.H{
		"Errors": validation.ErrorList{genericFailure},
		"Active": "",
	})
}
