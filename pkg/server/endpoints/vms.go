package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/vaxlabs/vmvault/pkg/identity"
	"github.com/vaxlabs/vmvault/pkg/model"
	"github.com/vaxlabs/vmvault/pkg/pipeline"
	"github.com/vaxlabs/vmvault/pkg/server"
	"github.com/vaxlabs/vmvault/pkg/server/store"
)

func RegisterVMEndpoints(s *server.Server) {
	router := s.Router

	vmRouter := router.PathPrefix("/vm").Subrouter()
	vmRouter.Use(s.JWTMiddleware.Middleware)

	// GET /vm/list - list uploaded VM images
	vmRouter.HandleFunc("/list", handleListVMs(s.VMStore, s.Config.ListLimitMax)).Methods("GET")

	// POST /vm/upload - upload and store a VM image
	vmRouter.HandleFunc("/upload", handleUploadVM(s.Upload, s.Config.UploadLimitBytes)).Methods("POST")

	// POST /vm/start - provision a VM from a stored image
	vmRouter.HandleFunc("/start", handleStartVM(s.Provision)).Methods("POST")
}

// ListVMsResponse is the /vm/list response body
type ListVMsResponse struct {
	Success    bool             `json:"success"`
	VMs        []model.VMRecord `json:"vms"`
	NextCursor *int64           `json:"nextCursor,omitempty"`
}

func handleListVMs(vms store.VMStore, limitMax int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var afterID int64
		if cursor := r.URL.Query().Get("cursor"); cursor != "" {
			parsed, err := strconv.ParseInt(cursor, 10, 64)
			if err != nil || parsed < 0 {
				respondWithFailure(w, http.StatusBadRequest, "Invalid cursor")
				return
			}
			afterID = parsed
		}

		limit := limitMax
		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			parsed, err := strconv.Atoi(limitParam)
			if err != nil || parsed <= 0 {
				respondWithFailure(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			if parsed < limit {
				limit = parsed
			}
		}

		records, err := vms.List(r.Context(), afterID, limit)
		if err != nil {
			log.Printf("list: %v", err)
			respondWithFailure(w, http.StatusInternalServerError, "Failed to fetch VMs.")
			return
		}

		resp := ListVMsResponse{Success: true, VMs: records}
		if len(records) == limit && limit > 0 {
			last := records[len(records)-1].ID
			resp.NextCursor = &last
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleUploadVM(upload *pipeline.Upload, limitBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limitBytes+1<<20)

		file, header, err := r.FormFile("vmFile")
		if err != nil {
			respondWithFailure(w, http.StatusBadRequest, "No file uploaded")
			return
		}
		defer func() { _ = file.Close() }()

		payload, err := io.ReadAll(file)
		if err != nil {
			respondWithFailure(w, http.StatusBadRequest, "Failed to read uploaded file")
			return
		}

		result, err := upload.Run(r.Context(), pipeline.UploadRequest{
			Filename:       header.Filename,
			Payload:        payload,
			VMName:         r.FormValue("vmName"),
			Description:    r.FormValue("description"),
			Location:       r.FormValue("location"),
			VMSize:         r.FormValue("vmSize"),
			ImageReference: r.FormValue("imageReference"),
			AdminUsername:  r.FormValue("adminUsername"),
		})
		if err != nil {
			if errors.Is(err, pipeline.ErrValidation) {
				respondWithFailure(w, http.StatusBadRequest, err.Error())
				return
			}
			caller, _ := identity.Get(r.Context())
			log.Printf("upload: %v (file %q, caller %v)", err, header.Filename, callerID(caller))
			respondWithFailure(w, http.StatusInternalServerError, "Server error")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"id":         result.ID,
			"storageUrl": result.StorageURL,
			"message":    "VM uploaded and stored successfully",
		})
	}
}

// StartVMRequest is the /vm/start request body
type StartVMRequest struct {
	VMID          int64  `json:"vmId"`
	AdminPassword string `json:"adminPassword"`
}

func handleStartVM(provision *pipeline.Provision) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartVMRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithFailure(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		defer func() { _ = r.Body.Close() }()

		vmName, err := provision.Run(r.Context(), req.VMID, req.AdminPassword)
		if err != nil {
			switch {
			case errors.Is(err, pipeline.ErrValidation):
				respondWithFailure(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, store.ErrVMNotFound):
				respondWithFailure(w, http.StatusNotFound, "VM metadata not found")
			default:
				caller, _ := identity.Get(r.Context())
				log.Printf("start: %v (vm %d, caller %v)", err, req.VMID, callerID(caller))
				respondWithFailure(w, http.StatusInternalServerError, "Failed to create/start VM.")
			}
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": fmt.Sprintf("VM %s created and started successfully.", vmName),
		})
	}
}

func callerID(id *identity.Identity) string {
	if id == nil {
		return "unknown"
	}
	return id.Subject
}
