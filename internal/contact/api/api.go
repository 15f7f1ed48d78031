// Package api exposes the contact endpoints consumed by the browser UI.
package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Its-donkey/folio/internal/contact"
	"github.com/Its-donkey/folio/internal/contact/notify"
	"github.com/Its-donkey/folio/internal/contact/store"
	"github.com/Its-donkey/folio/logging"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// AdminTokenHeader authenticates the admin listing endpoints.
const AdminTokenHeader = "X-Admin-Token"

const (
	maxBodyBytes     = 64 << 10
	defaultListLimit = 50
	maxListLimit     = 500

	notifyTimeout    = 15 * time.Second
	acceptedMessage  = "Message received."

	maxUnescapeRounds = 4
)

// Options configures the contact API.
type Options struct {
	Store    store.Store
	Notifier notify.Notifier
	Logger   *logging.Logger
	// AdminToken enables the listing endpoints when set.
	AdminToken string
	// LogPath is the server log file served by /api/logs.
	LogPath string
	// Salt is mixed into hashed client addresses.
	Salt string
	Now  func() time.Time
}

// Handler serves the contact API.
type Handler struct {
	store    store.Store
	notifier notify.Notifier
	logger   *logging.Logger
	token    string
	logPath  string
	salt     string
	now      func() time.Time
	policy   *bluemonday.Policy
}

// New builds a Handler from opts.
func New(opts Options) (*Handler, error) {
	if opts.Store == nil {
		return nil, errors.New("api: store is required")
	}
	h := &Handler{
		store:    opts.Store,
		notifier: opts.Notifier,
		logger:   opts.Logger,
		token:    opts.AdminToken,
		logPath:  opts.LogPath,
		salt:     opts.Salt,
		now:      opts.Now,
		policy:   bluemonday.StrictPolicy(),
	}
	if h.notifier == nil {
		h.notifier = notify.Nop{}
	}
	if h.logger == nil {
		h.logger = logging.New("contact-api", logging.INFO)
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h, nil
}

// Register mounts the API routes on r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/health", h.health)
	api.POST("/contact", h.submit)

	admin := api.Group("", h.requireAdmin)
	admin.GET("/contact", h.list)
	admin.GET("/logs", h.logs)
}

// Router returns a gin engine serving only the API.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)
	return r
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	log := h.logger.WithRequestID(c.Writer.Header().Get(logging.RequestIDHeader)).WithCategory("contact")

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil && !isFieldError(err) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "Message is too large.")
			return
		}
		respondError(c, http.StatusBadRequest, "Invalid request body.")
		return
	}
	msg := h.clean(contact.Message{Name: req.Name, Email: req.Email, Subject: req.Subject, Message: req.Message})
	if err := contact.Validate(msg); err != nil {
		log.WithField("reason", err.Error()).Warn("rejected contact message")
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	rec := store.NewRecord(msg, h.now(), h.hashClient(c.ClientIP()))
	if err := h.store.Save(c.Request.Context(), rec); err != nil {
		log.Error("failed to store contact message", err)
		respondError(c, http.StatusInternalServerError, "Unable to save your message right now.")
		return
	}
	log.WithField("id", rec.ID).Info("contact message stored")

	go h.notify(rec)

	c.JSON(http.StatusAccepted, contact.Receipt{ID: rec.ID, Message: acceptedMessage})
}

// isFieldError reports whether err came from the binding tags rather than
// from decoding; contact.Validate words those for the visitor.
func isFieldError(err error) bool {
	var fieldErrs validator.ValidationErrors
	return errors.As(err, &fieldErrs)
}

// policyEscapes undoes the escaping the sanitiser applies to plain text.
var policyEscapes = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&#39;", "'", "&#34;", `"`)

// clean trims msg and strips any markup from it.
func (h *Handler) clean(msg contact.Message) contact.Message {
	msg = contact.Normalize(msg)
	return contact.Normalize(contact.Message{
		Name:    h.strip(msg.Name),
		Email:   h.strip(msg.Email),
		Subject: h.strip(msg.Subject),
		Message: h.strip(msg.Message),
	})
}

// strip decodes entities until none are left so encoded tags reach the
// sanitiser as tags, then reverses only the sanitiser's own escapes. Input
// still carrying entities after maxUnescapeRounds keeps its escaped form.
func (h *Handler) strip(s string) string {
	for i := 0; i < maxUnescapeRounds; i++ {
		decoded := html.UnescapeString(s)
		if decoded == s {
			return policyEscapes.Replace(h.policy.Sanitize(s))
		}
		s = decoded
	}
	return h.policy.Sanitize(s)
}

func (h *Handler) notify(rec store.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := h.notifier.Notify(ctx, rec); err != nil && !errors.Is(err, notify.ErrNotConfigured) {
		h.logger.Error("contact", "failed to notify owner", err, map[string]any{"id": rec.ID})
	}
}

func (h *Handler) hashClient(ip string) string {
	if ip == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(ip + h.salt))
	return hex.EncodeToString(sum[:])[:16]
}

func (h *Handler) requireAdmin(c *gin.Context) {
	if h.token == "" {
		respondError(c, http.StatusNotFound, "Not found.")
		return
	}
	got := c.GetHeader(AdminTokenHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		respondError(c, http.StatusUnauthorized, "Invalid admin token.")
		return
	}
	c.Next()
}

func listLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return min(n, maxListLimit), true
}

func (h *Handler) list(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "limit must be a positive integer.")
		return
	}
	records, err := h.store.Recent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("contact", "failed to list contact messages", err, nil)
		respondError(c, http.StatusInternalServerError, "Unable to load messages.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": records})
}

func (h *Handler) logs(c *gin.Context) {
	limit, ok := listLimit(c)
	if !ok {
		respondError(c, http.StatusBadRequest, "limit must be a positive integer.")
		return
	}
	entries := []logging.Entry{}
	if h.logPath != "" {
		var err error
		entries, err = logging.ReadRecent(h.logPath, limit)
		if err != nil {
			h.logger.Error("admin", "failed to read logs", err, nil)
			respondError(c, http.StatusInternalServerError, "Unable to read logs.")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
