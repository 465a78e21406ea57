package endpoints

import (
	"log"
	"net/http"

	"github.com/vaxlabs/vmvault/pkg/server"
	"github.com/vaxlabs/vmvault/pkg/server/store"
)

func RegisterStatusEndpoints(s *server.Server) {
	// GET /health - database connectivity check, no auth
	s.Router.HandleFunc("/health", handleHealth(s.HealthStore)).Methods("GET")
}

func handleHealth(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := health.CheckConnectivity(r.Context()); err != nil {
			log.Printf("health: %v", err)
			respondWithFailure(w, http.StatusServiceUnavailable, "Database unreachable")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	}
}
