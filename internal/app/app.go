// Package app exposes the management web surface: an HTML dashboard and a
// small JSON API for recipients and alert dispatch.
package app

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sgaunet/mailalert/internal/configapp"
	"github.com/sgaunet/mailalert/internal/dispatcher"
	"github.com/sgaunet/mailalert/internal/recipient"
	"github.com/sirupsen/logrus"
)

//go:embed templates/index.html
var templatesFS embed.FS

type App struct {
	cfg    configapp.AppConfig
	store  recipient.Store
	disp   *dispatcher.Dispatcher
	appLog *logrus.Logger
	tmpl   *template.Template
	flash  *flashCodec
}

func New(cfg configapp.AppConfig, store recipient.Store, disp *dispatcher.Dispatcher, log *logrus.Logger) (*App, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &App{
		cfg:    cfg,
		store:  store,
		disp:   disp,
		appLog: log,
		tmpl:   tmpl,
		flash:  newFlashCodec(cfg.SecretKey),
	}, nil
}

// Router builds the HTTP routes.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", a.handleIndex)
	r.Post("/send-alert", a.handleSendAlert)
	r.Route("/recipients", func(pr chi.Router) {
		pr.Post("/add", a.handleAddRecipient)
		pr.Post("/remove", a.handleRemoveRecipient)
		pr.Post("/clear", a.handleClearRecipients)
	})
	r.Route("/api", func(pr chi.Router) {
		pr.Get("/recipients", a.handleAPIListRecipients)
		pr.Post("/recipients", a.handleAPIAddRecipient)
		pr.Delete("/recipients/{address}", a.handleAPIRemoveRecipient)
		pr.Post("/alerts", a.handleAPISendAlert)
	})
	r.Get("/healthz", a.handleHealthz)
	// Unknown pages go back to the dashboard.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
	return r
}

type indexData struct {
	Sender     string
	Recipients []string
	Flashes    []flashMessage
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	addresses, err := a.store.List(r.Context())
	if err != nil {
		a.appLog.Errorf("failed to list recipients: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data := indexData{
		Sender:     a.cfg.MailConfig.FromEmail,
		Recipients: addresses,
		Flashes:    a.flash.pop(w, r),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.tmpl.Execute(w, data); err != nil {
		a.appLog.Errorf("failed to render dashboard: %s", err)
	}
}

func (a *App) handleAddRecipient(w http.ResponseWriter, r *http.Request) {
	address := r.FormValue("new_email")
	err := a.store.Add(r.Context(), address)
	switch {
	case errors.Is(err, recipient.ErrInvalidAddress):
		a.flash.push(w, flashError, fmt.Sprintf("Invalid email format: %s", address))
	case errors.Is(err, recipient.ErrDuplicateAddress):
		a.flash.push(w, flashError, fmt.Sprintf("%s is already in the recipient list.", address))
	case err != nil:
		a.appLog.Errorf("failed to add recipient: %s", err)
		a.flash.push(w, flashError, "Error saving recipient list. Please try again.")
	default:
		a.flash.push(w, flashSuccess, fmt.Sprintf("Added %s to the recipient list.", recipient.Normalize(address)))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleRemoveRecipient(w http.ResponseWriter, r *http.Request) {
	address := r.FormValue("remove_email")
	err := a.store.Remove(r.Context(), address)
	switch {
	case errors.Is(err, recipient.ErrAddressNotFound):
		a.flash.push(w, flashError, fmt.Sprintf("%s was not found in the recipient list.", address))
	case err != nil:
		a.appLog.Errorf("failed to remove recipient: %s", err)
		a.flash.push(w, flashError, "Error saving recipient list. Please try again.")
	default:
		a.flash.push(w, flashSuccess, fmt.Sprintf("Removed %s from the recipient list.", recipient.Normalize(address)))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleClearRecipients(w http.ResponseWriter, r *http.Request) {
	addresses, err := a.store.List(r.Context())
	switch {
	case err != nil:
		a.appLog.Errorf("failed to list recipients: %s", err)
		a.flash.push(w, flashError, "Error deleting recipient list.")
	case len(addresses) == 0:
		a.flash.push(w, flashError, "No recipient list found to delete.")
	default:
		if err := a.store.Clear(r.Context()); err != nil {
			a.appLog.Errorf("failed to clear recipients: %s", err)
			a.flash.push(w, flashError, "Error deleting recipient list.")
		} else {
			a.flash.push(w, flashSuccess, "All recipients deleted successfully.")
		}
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleSendAlert(w http.ResponseWriter, r *http.Request) {
	message := r.FormValue("message")
	results, err := a.disp.Dispatch(r.Context(), message)
	if err != nil {
		a.flash.push(w, flashError, fmt.Sprintf("Failed to send alert: %s", err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	failed := dispatcher.Failed(results)
	if failed == 0 {
		a.flash.push(w, flashSuccess, fmt.Sprintf("Alert sent successfully to %d recipient(s)!", len(results)))
	} else {
		a.flash.push(w, flashError, fmt.Sprintf("Alert sent to %d recipient(s), %d failed.", len(results)-failed, failed))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *App) handleAPIRemoveRecipient(w http.ResponseWriter, r *http.Request) {
	address, err := url.PathUnescape(chi.URLParam(r, "address"))
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid address")
		return
	}
	err = a.store.Remove(r.Context(), address)
	switch {
	case errors.Is(err, recipient.ErrAddressNotFound):
		writeAPIError(w, http.StatusNotFound, err.Error())
	case err != nil:
		a.appLog.Errorf("failed to remove recipient: %s", err)
		writeAPIError(w, http.StatusInternalServerError, "internal error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
