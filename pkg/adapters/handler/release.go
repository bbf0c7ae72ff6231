package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lizdek/lizdek-api/pkg/auth"
	"github.com/lizdek/lizdek-api/pkg/core/domain"
	"github.com/lizdek/lizdek-api/pkg/ports"
)

type ReleaseHandler struct {
	service ports.ReleaseService
	errs    *errorWriter
}

func NewReleaseHandler(service ports.ReleaseService, errs *errorWriter) *ReleaseHandler {
	return &ReleaseHandler{service: service, errs: errs}
}

// releaseRequest is the create/update payload. Links stays raw so an absent
// field can be told apart from an empty array.
type releaseRequest struct {
	Title         any             `json:"title"`
	URLTitle      any             `json:"url_title"`
	SoundCloudURL any             `json:"soundcloud_url"`
	Collaborators any             `json:"collaborators"`
	ReleaseDate   any             `json:"release_date"`
	Links         json.RawMessage `json:"links"`
}

type linkRequest struct {
	Platform any `json:"platform"`
	URL      any `json:"url"`
}

func (req releaseRequest) input() (ports.ReleaseInput, error) {
	collaborators, ok := optionalString(req.Collaborators)
	if !ok {
		return ports.ReleaseInput{}, domain.NewValidationError("Collaborators must be a string")
	}

	in := ports.ReleaseInput{
		Title:         stringValue(req.Title),
		URLTitle:      stringValue(req.URLTitle),
		SoundCloudURL: stringValue(req.SoundCloudURL),
		Collaborators: collaborators,
		ReleaseDate:   stringValue(req.ReleaseDate),
	}

	raw := bytes.TrimSpace(req.Links)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return in, nil
	}
	var links []linkRequest
	if err := json.Unmarshal(raw, &links); err != nil {
		return ports.ReleaseInput{}, domain.NewValidationError("Links must be an array of objects with platform and url")
	}
	in.Links = make([]ports.LinkInput, 0, len(links))
	for _, l := range links {
		in.Links = append(in.Links, ports.LinkInput{Platform: stringValue(l.Platform), URL: stringValue(l.URL)})
	}
	return in, nil
}

func (h *ReleaseHandler) decode(r *http.Request) (ports.ReleaseInput, error) {
	var req releaseRequest
	if err := decodeJSON(r, &req); err != nil {
		return ports.ReleaseInput{}, err
	}
	return req.input()
}

func (h *ReleaseHandler) List(w http.ResponseWriter, r *http.Request) {
	releases, err := h.service.ListReleases(r.Context())
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

func (h *ReleaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	release, err := h.service.GetRelease(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (h *ReleaseHandler) Create(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	in, err := h.decode(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	release, err := h.service.CreateRelease(r.Context(), in)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, release)
}

func (h *ReleaseHandler) Update(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	in, err := h.decode(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	release, err := h.service.UpdateRelease(r.Context(), chi.URLParam(r, "ref"), in)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (h *ReleaseHandler) Delete(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, ok := parseID(chi.URLParam(r, "ref"))
	if !ok {
		h.errs.write(w, r, domain.NewNotFoundError("Release not found"))
		return
	}
	if err := h.service.DeleteRelease(r.Context(), id); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Release deleted successfully"})
}
