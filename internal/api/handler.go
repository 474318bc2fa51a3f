// Package api exposes the proximity engine over HTTP, mirroring the JSON
// shapes the map frontend expects.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/metro-proximity/internal/proximity"
	"github.com/sells-group/metro-proximity/internal/region"
	"github.com/sells-group/metro-proximity/pkg/geocode"
)

// Server wires the proximity engine and its collaborators into HTTP handlers.
type Server struct {
	engine        *proximity.Engine
	manager       *region.Manager
	geocoder      geocode.Client
	defaultRadius float64
}

// NewServer creates the HTTP layer. geocoder may be nil; the /search endpoint
// then reports address search as unavailable.
func NewServer(engine *proximity.Engine, manager *region.Manager, geocoder geocode.Client, defaultRadiusMiles float64) *Server {
	if defaultRadiusMiles <= 0 {
		defaultRadiusMiles = 50
	}
	return &Server{
		engine:        engine,
		manager:       manager,
		geocoder:      geocoder,
		defaultRadius: defaultRadiusMiles,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(logRequests)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/check-proximity", s.handleCheckProximity)
	r.Get("/metros.geojson", s.handleMetrosGeoJSON)
	r.Get("/search", s.handleSearch)
	r.Get("/map", s.handleMap)
	r.Get("/", s.handleHome)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	count := 0
	if store, err := s.manager.EnsureLoaded(); err == nil {
		count = store.Count()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"metros_loaded": count,
	})
}

// handleCheckProximity answers GET /check-proximity?lat=&lon=&max_distance=.
func (s *Server) handleCheckProximity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(w, http.StatusBadRequest, "Invalid parameters. Provide lat, lon as numbers.")
		return
	}

	maxDistance := s.defaultRadius
	if raw := q.Get("max_distance"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid parameters. Provide max_distance as a number.")
			return
		}
		maxDistance = parsed
	}

	result, err := s.engine.Check(lat, lon, maxDistance)
	if err != nil {
		s.writeCheckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMetrosGeoJSON returns region centroids as a GeoJSON FeatureCollection
// so the map can render coverage without full polygon detail.
func (s *Server) handleMetrosGeoJSON(w http.ResponseWriter, _ *http.Request) {
	store, err := s.manager.EnsureLoaded()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Metro data not loaded")
		return
	}

	centroids := store.Centroids()
	features := make([]map[string]any, 0, len(centroids))
	for _, c := range centroids {
		features = append(features, map[string]any{
			"type": "Feature",
			"geometry": map[string]any{
				"type":        "Point",
				"coordinates": []float64{c.Lon, c.Lat},
			},
			"properties": map[string]any{
				"name":      c.Name,
				"cbsa_code": c.Code,
			},
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"type":     "FeatureCollection",
		"features": features,
	})
}

// searchResponse pairs a geocode hit with its proximity result.
type searchResponse struct {
	Address     string            `json:"address"`
	DisplayName string            `json:"display_name"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	Proximity   *proximity.Result `json:"proximity"`
}

// handleSearch geocodes a free-text address and runs the proximity check on
// the resolved coordinates.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	if s.geocoder == nil {
		writeError(w, http.StatusServiceUnavailable, "address search not configured")
		return
	}

	geo, err := s.geocoder.Geocode(r.Context(), address)
	if err != nil {
		zap.L().Warn("geocode failed", zap.String("address", address), zap.Error(err))
		writeError(w, http.StatusBadGateway, "geocoding failed")
		return
	}
	if !geo.Matched {
		writeError(w, http.StatusNotFound, "address not found")
		return
	}

	result, err := s.engine.Check(geo.Latitude, geo.Longitude, s.defaultRadius)
	if err != nil {
		s.writeCheckError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Address:     address,
		DisplayName: geo.DisplayName,
		Lat:         geo.Latitude,
		Lon:         geo.Longitude,
		Proximity:   result,
	})
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(mapPageHTML))
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	count := 0
	if store, err := s.manager.EnsureLoaded(); err == nil {
		count = store.Count()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(homePage(count)))
}

// writeCheckError maps engine errors to HTTP statuses: bad input is the
// caller's fault, a missing dataset is a service condition, anything else is
// internal. Errors stay local to the one query.
func (s *Server) writeCheckError(w http.ResponseWriter, err error) {
	switch {
	case eris.Is(err, proximity.ErrInvalidParameters):
		writeError(w, http.StatusBadRequest, "Invalid parameters. Provide lat, lon as numbers.")
	case eris.Is(err, region.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Metro data not loaded")
	default:
		zap.L().Error("proximity check failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
