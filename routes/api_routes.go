// Package routes wires the HTTP API over the analysis results.
package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/salesboard/analytics/engine"
	"github.com/salesboard/analytics/export"
	"github.com/salesboard/analytics/middleware"
	"github.com/salesboard/analytics/websocket"
)

// Service is what the API needs from the run coordinator: the latest
// completed result and a way to trigger a fresh run.
type Service interface {
	Latest() *engine.Result
	RunNow() (*engine.Result, error)
}

// SetupRoutes registers every API route and the WebSocket endpoint.
func SetupRoutes(router *mux.Router, svc Service, wsManager *websocket.Manager) {
	router.Use(middleware.CORSMiddleware)

	router.HandleFunc("/ws", wsManager.ServeWS)

	router.HandleFunc("/api/summary", resultSection(svc, func(r *engine.Result) interface{} {
		return r.Summary
	})).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/aggregates/{section}", aggregatesHandler(svc)).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/segments", resultSection(svc, func(r *engine.Result) interface{} {
		return r.Customers
	})).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/trend", resultSection(svc, func(r *engine.Result) interface{} {
		return r.Trend
	})).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/correlation", resultSection(svc, func(r *engine.Result) interface{} {
		return r.Correlation
	})).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/recommendations", resultSection(svc, func(r *engine.Result) interface{} {
		return r.Recommendations
	})).Methods("GET", "OPTIONS")

	router.HandleFunc("/api/run", runHandler(svc)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/snapshot", snapshotHandler(svc)).Methods("GET", "OPTIONS")
}

// resultSection serves one slice of the latest result, or 503 while no
// run has completed yet.
func resultSection(svc Service, pick func(*engine.Result) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := svc.Latest()
		if result == nil {
			writeError(w, http.StatusServiceUnavailable, "no analysis run has completed yet")
			return
		}
		writeJSON(w, http.StatusOK, pick(result))
	}
}

func aggregatesHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := svc.Latest()
		if result == nil {
			writeError(w, http.StatusServiceUnavailable, "no analysis run has completed yet")
			return
		}

		section := mux.Vars(r)["section"]
		rows, ok := pickSection(result.Aggregates, section)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown aggregate section %q", section))
			return
		}
		writeJSON(w, http.StatusOK, rows)
	}
}

func pickSection(set *engine.AggregateSet, section string) (interface{}, bool) {
	switch section {
	case "monthly":
		return set.Monthly, true
	case "country":
		return set.Country, true
	case "region":
		return set.Region, true
	case "category":
		return set.Category, true
	case "product":
		return set.Product, true
	case "customer":
		return set.Customer, true
	case "channel":
		return set.Channel, true
	case "business_type":
		return set.BusinessType, true
	case "seasonal":
		return set.Seasonal, true
	default:
		return nil, false
	}
}

func runHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.RunNow()
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func snapshotHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := svc.Latest()
		if result == nil {
			writeError(w, http.StatusServiceUnavailable, "no analysis run has completed yet")
			return
		}

		data, err := export.Encode(result)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="snapshot-%s.json.sz"`, result.RunID))
		w.Write(data)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
