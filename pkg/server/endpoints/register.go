package endpoints

import (
	"github.com/vaxlabs/vmvault/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterVMEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
