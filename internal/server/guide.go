package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/guide"
	"github.com/guestbites/guestbites/internal/model"
	"github.com/guestbites/guestbites/internal/qr"
)

func guideRequest(zip string, q url.Values) guide.Request {
	return guide.Request{
		Zip:          zip,
		PropertyName: strings.TrimSpace(q.Get("propertyName")),
		HostPicks:    guide.PicksFromQuery(q),
		Custom:       guide.DecodeCustom(q.Get("custom")),
	}
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	zip := strings.TrimSpace(chi.URLParam(r, "zip"))
	if !guide.ValidZip(zip) {
		writeError(w, http.StatusBadRequest, "Invalid zip")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Guides.Build(r.Context(), guideRequest(zip, r.URL.Query())))
}

func (s *Server) handleGuestGuide(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	zip, ok := zipParam(w, q)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Guides.Build(r.Context(), guideRequest(zip, q)))
}

type addCustomRequest struct {
	// Custom is the page's current "custom" parameter.
	Custom string            `json:"custom"`
	Place  model.CustomPlace `json:"place"`
}

type addCustomResponse struct {
	CustomPlaces []model.CustomPlace `json:"customPlaces"`
	Custom       string              `json:"custom"`
	URL          string              `json:"url"`
}

func (s *Server) handleAddCustom(w http.ResponseWriter, r *http.Request) {
	zip := strings.TrimSpace(chi.URLParam(r, "zip"))
	if !guide.ValidZip(zip) {
		writeError(w, http.StatusBadRequest, "Invalid zip")
		return
	}

	var req addCustomRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	updated, param, err := guide.AddCustom(guide.DecodeCustom(req.Custom), req.Place)
	if errors.Is(err, guide.ErrCustomNameRequired) {
		writeError(w, http.StatusBadRequest, "Place name is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, addCustomResponse{
		CustomPlaces: updated,
		Custom:       param,
		URL:          guide.GuideLink(s.opts.Origin, zip, updated),
	})
}

func (s *Server) shareLink(q url.Values, zip string) string {
	return guide.ShareLink(s.opts.Origin, zip, strings.TrimSpace(q.Get("propertyName")), guide.PicksFromQuery(q))
}

func (s *Server) handleShareLink(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	zip, ok := zipParam(w, q)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": s.shareLink(q, zip)})
}

func (s *Server) handleShareQR(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	zip, ok := zipParam(w, q)
	if !ok {
		return
	}
	size := 0
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid size")
			return
		}
		size = n
	}

	png, err := qr.PNG(s.shareLink(q, zip), size)
	if err != nil {
		zap.L().Error("server: render qr", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Could not render QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func zipParam(w http.ResponseWriter, q url.Values) (string, bool) {
	zip := strings.TrimSpace(q.Get("zip"))
	if zip == "" {
		writeError(w, http.StatusBadRequest, "Missing zip")
		return "", false
	}
	if !guide.ValidZip(zip) {
		writeError(w, http.StatusBadRequest, "Invalid zip")
		return "", false
	}
	return zip, true
}
