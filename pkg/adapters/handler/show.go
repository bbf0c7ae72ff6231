package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

type ShowHandler struct {
	service ports.ShowService
	errs    *errorWriter
}

func NewShowHandler(service ports.ShowService, errs *errorWriter) *ShowHandler {
	return &ShowHandler{service: service, errs: errs}
}

type showRequest struct {
	Venue         any `json:"venue"`
	City          any `json:"city"`
	StateProvince any `json:"state_province"`
	Country       any `json:"country"`
	TicketLink    any `json:"ticket_link"`
	ShowDate      any `json:"show_date"`
}

func (h *ShowHandler) decode(r *http.Request) (ports.ShowInput, error) {
	var req showRequest
	if err := decodeJSON(r, &req); err != nil {
		return ports.ShowInput{}, err
	}
	ticket, ok := optionalString(req.TicketLink)
	if !ok {
		return ports.ShowInput{}, domain.NewValidationError("Ticket link must be a string")
	}
	return ports.ShowInput{
		Venue:         stringValue(req.Venue),
		City:          stringValue(req.City),
		StateProvince: stringValue(req.StateProvince),
		Country:       stringValue(req.Country),
		TicketLink:    ticket,
		ShowDate:      stringValue(req.ShowDate),
	}, nil
}

func (h *ShowHandler) showID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		h.errs.write(w, r, domain.NewNotFoundError("Show not found"))
	}
	return id, ok
}

func (h *ShowHandler) List(w http.ResponseWriter, r *http.Request) {
	shows, err := h.service.ListShows(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shows)
}

func (h *ShowHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	upcoming, err := h.service.UpcomingShows(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upcoming)
}

func (h *ShowHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.showID(w, r)
	if !ok {
		return
	}
	show, err := h.service.GetShow(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func (h *ShowHandler) Create(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	in, err := h.decode(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	show, err := h.service.CreateShow(r.Context(), in)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, show)
}

func (h *ShowHandler) Update(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, ok := h.showID(w, r)
	if !ok {
		return
	}
	in, err := h.decode(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	show, err := h.service.UpdateShow(r.Context(), id, in)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, show)
}

func (h *ShowHandler) Delete(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, ok := h.showID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteShow(r.Context(), id); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Show deleted successfully"})
}
