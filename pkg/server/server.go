package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/vaxlabs/vmvault/pkg/blob"
	"github.com/vaxlabs/vmvault/pkg/compute"
	"github.com/vaxlabs/vmvault/pkg/config"
	"github.com/vaxlabs/vmvault/pkg/pipeline"
	"github.com/vaxlabs/vmvault/pkg/server/middleware"
	"github.com/vaxlabs/vmvault/pkg/server/store"
	gormstore "github.com/vaxlabs/vmvault/pkg/server/store/gorm"
)

type Server struct {
	Router        *mux.Router
	DB            *gorm.DB
	VMStore       store.VMStore
	HealthStore   store.HealthStore
	Upload        *pipeline.Upload
	Provision     *pipeline.Provision
	JWTMiddleware *middleware.JWTAuthenticator
	Config        *config.Config
	srv           *http.Server
}

func NewServer(
	db *gorm.DB,
	blobs blob.Store,
	provisioner compute.Provisioner,
	cfg *config.Config,
) *Server {
	vms := gormstore.NewVMStore(db)

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.BindAddress + ":" + cfg.Port,
		// Uploads and provisioning polls run long, so only the read
		// side gets a fixed timeout; writes are bounded by the
		// provisioning wait plus margin.
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      cfg.ProvisionTimeout() + 30*time.Second,
	}

	return &Server{
		Router:        router,
		DB:            db,
		VMStore:       vms,
		HealthStore:   vms,
		Upload:        pipeline.NewUpload(blobs, vms, cfg.UploadLimitBytes),
		Provision:     pipeline.NewProvision(vms, provisioner),
		JWTMiddleware: middleware.NewJWTAuthenticator([]byte(cfg.JWTSecret)),
		Config:        cfg,
		srv:           srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting new requests and waits for in-flight ones
// to finish, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
