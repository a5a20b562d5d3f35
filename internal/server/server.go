package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/rs/cors"

	"github.com/prite36/aquaponics-iot-system/internal/config"
	"github.com/prite36/aquaponics-iot-system/internal/dispatcher"
	"github.com/prite36/aquaponics-iot-system/internal/store"
)

// Connectivity reports the state of the telemetry channel for /status.
type Connectivity interface {
	IsConnected() bool
}

// New creates the HTTP API server and sets up the routes.
func New(cfg *config.Config, st *store.Store, disp *dispatcher.Dispatcher, conn Connectivity) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "OK")
	})

	mux.HandleFunc("/", IndexHandler())
	mux.HandleFunc("/latest", LatestHandler(st))
	mux.HandleFunc("/data", DataHandler(st))
	mux.HandleFunc("/alerts", AlertsHandler(st))
	mux.HandleFunc("/status", StatusHandler(cfg, st, conn))
	mux.HandleFunc("/control/pump", ControlPumpHandler(disp))
	mux.HandleFunc("/control/light", ControlLightHandler(disp))
	mux.HandleFunc("/control/simulate-failure", SimulateFailureHandler(disp))
	mux.HandleFunc("/dashboard", DashboardHandler())

	addr := cfg.Server.Addr
	log.Printf("API Server configured to listen on %s", addr)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	})
	handler := c.Handler(mux)

	return &http.Server{
		Addr:    addr,
		Handler: handler,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
