package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/guestbites/guestbites/internal/places"
	"github.com/guestbites/guestbites/pkg/nominatim"
)

const placesCacheControl = "s-maxage=86400, stale-while-revalidate=43200"

func (s *Server) handlePlaces(w http.ResponseWriter, r *http.Request) {
	zip := strings.TrimSpace(r.URL.Query().Get("zip"))
	if zip == "" {
		writeError(w, http.StatusBadRequest, "Missing zip")
		return
	}

	payload, err := s.deps.Places.Search(r.Context(), zip)
	if err != nil {
		var ue *places.UpstreamError
		switch {
		case errors.As(err, &ue):
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(ue.StatusCode)
			_, _ = w.Write(ue.Body)
		case errors.Is(err, places.ErrMissingZip):
			writeError(w, http.StatusBadRequest, "Missing zip")
		case errors.Is(err, places.ErrNotConfigured):
			writeError(w, http.StatusInternalServerError, "Place search not configured")
		case errors.Is(err, nominatim.ErrNotFound):
			writeError(w, http.StatusInternalServerError, "Fallback geocode failed")
		default:
			zap.L().Error("server: places search failed", zap.String("zip", zip), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	w.Header().Set("Cache-Control", placesCacheControl)
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleZip(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	latStr, lonStr := strings.TrimSpace(q.Get("lat")), strings.TrimSpace(q.Get("lon"))
	if latStr == "" || lonStr == "" {
		writeError(w, http.StatusBadRequest, "Missing lat/lon")
		return
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "Invalid lat/lon")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.opts.Timeout)
	defer cancel()

	zip, err := s.deps.Zips.Reverse(ctx, lat, lon)
	switch {
	case errors.Is(err, nominatim.ErrNotFound):
		writeError(w, http.StatusNotFound, "ZIP not found")
	case err != nil:
		zap.L().Error("server: reverse geocode failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Server error")
	default:
		writeJSON(w, http.StatusOK, map[string]string{"zip": zip})
	}
}
