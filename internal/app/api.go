package app

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sgaunet/mailalert/internal/dispatcher"
	"github.com/sgaunet/mailalert/internal/recipient"
)

type recipientListResponse struct {
	Recipients []string `json:"recipients"`
}

type addRecipientRequest struct {
	Address string `json:"address"`
}

type sendAlertRequest struct {
	Message string `json:"message"`
}

type sendResult struct {
	Address string `json:"address"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

type sendAlertResponse struct {
	Results []sendResult `json:"results"`
}

type apiError struct {
	Error string `json:"error"`
}

func (a *App) handleAPIListRecipients(w http.ResponseWriter, r *http.Request) {
	addresses, err := a.store.List(r.Context())
	if err != nil {
		a.appLog.Errorf("failed to list recipients: %s", err)
		writeAPIError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if addresses == nil {
		addresses = []string{}
	}
	writeJSON(w, http.StatusOK, recipientListResponse{Recipients: addresses})
}

func (a *App) handleAPIAddRecipient(w http.ResponseWriter, r *http.Request) {
	var req addRecipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	err := a.store.Add(r.Context(), req.Address)
	switch {
	case errors.Is(err, recipient.ErrInvalidAddress):
		writeAPIError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, recipient.ErrDuplicateAddress):
		writeAPIError(w, http.StatusConflict, err.Error())
	case err != nil:
		a.appLog.Errorf("failed to add recipient: %s", err)
		writeAPIError(w, http.StatusInternalServerError, "internal error")
	default:
		w.WriteHeader(http.StatusCreated)
	}
}

func (a *App) handleAPISendAlert(w http.ResponseWriter, r *http.Request) {
	var req sendAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	results, err := a.disp.Dispatch(r.Context(), req.Message)
	switch {
	case errors.Is(err, dispatcher.ErrEmptyMessage), errors.Is(err, dispatcher.ErrMessageTooLong):
		writeAPIError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, dispatcher.ErrNoRecipients):
		writeAPIError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		a.appLog.Errorf("failed to dispatch alert: %s", err)
		writeAPIError(w, http.StatusInternalServerError, "internal error")
		return
	}
	resp := sendAlertResponse{Results: make([]sendResult, 0, len(results))}
	for _, res := range results {
		sr := sendResult{Address: res.Address, Status: "sent"}
		if res.Err != nil {
			sr.Status = "failed"
			sr.Error = res.Err.Error()
		}
		resp.Results = append(resp.Results, sr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}
