package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/export"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/storage"
	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/whatsapp"
)

//go:embed templates/*.html
var templates embed.FS

// GuestStore is the persistence the handlers depend on.
type GuestStore interface {
	AddGuest(ctx context.Context, guest models.Guest) (int64, error)
	DeleteGuest(ctx context.Context, id int64) error
	GetGuest(ctx context.Context, id int64) (*models.GuestRow, error)
	ListGuests(ctx context.Context) ([]models.GuestRow, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	UpdatePhrases(ctx context.Context, phrases map[int]string) error
	Ping(ctx context.Context) error
}

// FollowupRenderer writes the follow-up document.
type FollowupRenderer interface {
	Render(w io.Writer, doc export.Followup) error
}

type Config struct {
	DocumentTitle string
}

// GuestListHandler serves the guest list pages and exports.
type GuestListHandler struct {
	store    GuestStore
	renderer FollowupRenderer
	greeter  *GreetingSender
	config   *Config
	tmpl     *template.Template
	log      zerolog.Logger
}

// NewGuestListHandler creates the handler. renderer and greeter may be nil,
// which disables the PDF export and WhatsApp greetings respectively.
func NewGuestListHandler(store GuestStore, renderer FollowupRenderer, greeter *GreetingSender, cfg *Config, logger zerolog.Logger) *GuestListHandler {
	return &GuestListHandler{
		store:    store,
		renderer: renderer,
		greeter:  greeter,
		config:   cfg,
		tmpl:     template.Must(template.ParseFS(templates, "templates/index.html")),
		log:      logger.With().Str("component", "http").Logger(),
	}
}

// Routes returns the HTTP router.
func (h *GuestListHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		hlog.NewHandler(h.log),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.RemoteAddrHandler("ip"),
		hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
			hlog.FromRequest(r).Info().
				Str("method", r.Method).
				Stringer("url", r.URL).
				Int("status", status).
				Int("size", size).
				Dur("duration", duration).
				Msg("request")
		}),
	)

	r.Get("/", h.index)
	r.Post("/", h.submit)
	r.Get("/delete/{id}", h.deleteGuest)
	r.Get("/download-db", h.downloadCSV)
	r.Get("/c", h.downloadCSV)
	r.Get("/followup_pdf", h.followupPDF)
	r.Post("/greet/{id}", h.greet)
	r.Get("/healthz", h.healthz)

	return r
}

type categoryView struct {
	ID      int
	Phrase  string
	Presets []string
}

type pageData struct {
	Message         string
	Guests          []models.GuestRow
	Categories      []categoryView
	DefaultCategory int
	WhatsAppEnabled bool
}

func (h *GuestListHandler) index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, popFlash(w, r))
}

func (h *GuestListHandler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	switch r.PostFormValue("form_type") {
	case formTypeGuest:
		h.addGuest(w, r)
	case formTypeClosure:
		h.updatePhrases(w, r)
	default:
		h.render(w, r, "")
	}
}

func (h *GuestListHandler) addGuest(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGuestForm(r)
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		hlog.FromRequest(r).Warn().Str("field", verr.Field).Msg("rejected guest form")
		h.render(w, r, verr.Message)
		return
	case err != nil:
		h.serverError(w, r, err, "failed to decode guest form")
		return
	}

	id, err := h.store.AddGuest(r.Context(), req.Guest())
	if err != nil {
		h.serverError(w, r, err, "failed to add guest")
		return
	}

	hlog.FromRequest(r).Info().Int64("guest_id", id).Int("category", req.CategoryID).Msg("guest added")
	h.redirect(w, r, msgGuestAdded)
}

func (h *GuestListHandler) updatePhrases(w http.ResponseWriter, r *http.Request) {
	if err := h.store.UpdatePhrases(r.Context(), decodePhraseForm(r)); err != nil {
		h.serverError(w, r, err, "failed to update phrases")
		return
	}
	h.redirect(w, r, msgPhrasesSaved)
}

func (h *GuestListHandler) deleteGuest(w http.ResponseWriter, r *http.Request) {
	id, ok := guestID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.store.DeleteGuest(r.Context(), id); err != nil {
		h.serverError(w, r, err, "failed to delete guest")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *GuestListHandler) downloadCSV(w http.ResponseWriter, r *http.Request) {
	guests, err := h.store.ListGuests(r.Context())
	if err != nil {
		h.serverError(w, r, err, "failed to list guests")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, guests); err != nil {
		h.serverError(w, r, err, "failed to export csv")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="guests.csv"`)
	w.Write(buf.Bytes())
}

func (h *GuestListHandler) followupPDF(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		http.Error(w, "pdf export unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := r.Context()
	guests, err := h.store.ListGuests(ctx)
	if err != nil {
		h.serverError(w, r, err, "failed to list guests")
		return
	}
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.serverError(w, r, err, "failed to list categories")
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, export.BuildFollowup(h.config.DocumentTitle, categories, guests)); err != nil {
		h.serverError(w, r, err, "failed to render follow-up pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="followup.pdf"`)
	w.Write(buf.Bytes())
}

func (h *GuestListHandler) greet(w http.ResponseWriter, r *http.Request) {
	id, ok := guestID(r)
	if h.greeter == nil || !ok {
		http.NotFound(w, r)
		return
	}

	guest, err := h.greeter.SendGreeting(r.Context(), id)
	switch {
	case err == nil:
		h.redirect(w, r, fmt.Sprintf(msgGreetingSent, guest.Name))
	case errors.Is(err, storage.ErrGuestNotFound):
		h.redirect(w, r, msgGuestMissing)
	case errors.Is(err, ErrNoPhone):
		h.redirect(w, r, msgNoPhone)
	case errors.Is(err, whatsapp.ErrNotOnWhatsApp):
		h.redirect(w, r, msgNotOnWhatsApp)
	default:
		hlog.FromRequest(r).Error().Err(err).Int64("guest_id", id).Msg("failed to send greeting")
		h.redirect(w, r, msgGreetingFailed)
	}
}

func (h *GuestListHandler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.serverError(w, r, err, "database unreachable")
		return
	}
	w.Write([]byte("ok"))
}

func (h *GuestListHandler) render(w http.ResponseWriter, r *http.Request, message string) {
	ctx := r.Context()
	guests, err := h.store.ListGuests(ctx)
	if err != nil {
		h.serverError(w, r, err, "failed to list guests")
		return
	}
	categories, err := h.store.ListCategories(ctx)
	if err != nil {
		h.serverError(w, r, err, "failed to list categories")
		return
	}

	data := pageData{
		Message:         message,
		Guests:          guests,
		DefaultCategory: models.DefaultCategoryID,
		WhatsAppEnabled: h.greeter != nil,
	}
	for _, c := range categories {
		data.Categories = append(data.Categories, categoryView{
			ID:      c.ID,
			Phrase:  c.Phrase,
			Presets: models.PresetPhrases[c.ID],
		})
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		h.serverError(w, r, err, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *GuestListHandler) redirect(w http.ResponseWriter, r *http.Request, message string) {
	setFlash(w, message)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *GuestListHandler) serverError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	hlog.FromRequest(r).Error().Err(err).Msg(msg)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func guestID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}
