// Package server provides the HTTP server for the vmvault API.
//
// This package implements the core HTTP server handling VM image
// uploads, provisioning, and listing. It uses gorilla/mux for routing
// and provides middleware for authentication.
//
// # Server Setup
//
//	srv := server.NewServer(db, blobs, provisioner, cfg)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - VMStore / HealthStore: metadata storage
//   - Upload / Provision: the two pipelines
//   - JWTMiddleware: bearer token validation
//   - Router: HTTP request router
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers:
//
//   - GET  /vm/list   - list uploaded VM images
//   - POST /vm/upload - upload and store a VM image
//   - POST /vm/start  - provision a VM from a stored image
//   - GET  /health    - database connectivity check
package server
