package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vaxlabs/vmvault/pkg/model"
	"github.com/vaxlabs/vmvault/pkg/server/store"
)

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestVMEndpointsRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)

	requests := []*http.Request{
		httptest.NewRequest("GET", "/vm/list", nil),
		httptest.NewRequest("POST", "/vm/upload", nil),
		httptest.NewRequest("POST", "/vm/start", strings.NewReader(`{"vmId":1}`)),
	}

	for _, req := range requests {
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", req.Method, req.URL.Path)
	}
}

func TestListVMs(t *testing.T) {
	s, deps := newTestServer(t)

	records := []model.VMRecord{
		{ID: 1, VMName: "test", Location: "eastus", VMSize: "Standard_B1s", Compression: model.CodecZstd},
		{ID: 2, VMName: "other", Location: "westus", VMSize: "Standard_B2s", Compression: model.CodecZstd},
	}
	deps.VMs.On("List", mock.Anything, int64(0), 100).Return(records, nil)

	req := authed(t, httptest.NewRequest("GET", "/vm/list", nil))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListVMsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.VMs, 2)
	assert.Equal(t, "test", resp.VMs[0].VMName)
	assert.Nil(t, resp.NextCursor, "partial page has no next cursor")
}

func TestListVMsPagination(t *testing.T) {
	s, deps := newTestServer(t)

	records := []model.VMRecord{{ID: 11, VMName: "a"}, {ID: 12, VMName: "b"}}
	deps.VMs.On("List", mock.Anything, int64(10), 2).Return(records, nil)

	req := authed(t, httptest.NewRequest("GET", "/vm/list?cursor=10&limit=2", nil))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp ListVMsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.NextCursor, "full page has a next cursor")
	assert.Equal(t, int64(12), *resp.NextCursor)
}

func TestListVMsBadCursor(t *testing.T) {
	s, _ := newTestServer(t)

	for _, target := range []string{"/vm/list?cursor=abc", "/vm/list?limit=-1"} {
		req := authed(t, httptest.NewRequest("GET", target, nil))
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestListVMsDependencyFailure(t *testing.T) {
	s, deps := newTestServer(t)

	deps.VMs.On("List", mock.Anything, int64(0), 100).
		Return(nil, assert.AnError)

	req := authed(t, httptest.NewRequest("GET", "/vm/list", nil))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to fetch VMs.", body["message"])
}

func TestUploadVM(t *testing.T) {
	s, deps := newTestServer(t)

	deps.Blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("https://vaxlabs.blob.core.windows.net/vaxlabs-vms/1-abc-img.qcow2.zst", nil)
	deps.VMs.On("Insert", mock.Anything, mock.AnythingOfType("*model.VMRecord")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.VMRecord).ID = 7
		}).
		Return(nil)

	body, contentType := multipartUpload(t, "img.qcow2", []byte("0123456789"), map[string]string{
		"vmName":         "test",
		"location":       "eastus",
		"vmSize":         "Standard_B1s",
		"imageReference": "Canonical:ubuntu:22_04:latest",
	})

	req := authed(t, httptest.NewRequest("POST", "/vm/upload", body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(7), resp["id"])
	assert.True(t, strings.HasSuffix(resp["storageUrl"].(string), ".zst"))

	record := deps.VMs.Calls[0].Arguments.Get(1).(*model.VMRecord)
	assert.Equal(t, "test", record.VMName)
	assert.Equal(t, "Canonical:ubuntu:22_04:latest", record.ImageReference)
}

func TestUploadVMWithoutFile(t *testing.T) {
	s, deps := newTestServer(t)

	body, contentType := multipartUpload(t, "", nil, map[string]string{"vmName": "test"})

	req := authed(t, httptest.NewRequest("POST", "/vm/upload", body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "No file uploaded", resp["message"])

	// No partial side effects.
	deps.Blobs.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	deps.VMs.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestUploadVMDependencyFailure(t *testing.T) {
	s, deps := newTestServer(t)

	deps.Blobs.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("", assert.AnError)

	body, contentType := multipartUpload(t, "img.qcow2", []byte("data"), nil)
	req := authed(t, httptest.NewRequest("POST", "/vm/upload", body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Server error", resp["message"], "internal details must not leak")
}

func TestStartVM(t *testing.T) {
	s, deps := newTestServer(t)

	deps.VMs.On("Get", mock.Anything, int64(42)).Return(&model.VMRecord{
		ID:             42,
		VMName:         "test",
		Location:       "eastus",
		VMSize:         "Standard_B1s",
		ImageReference: "Canonical:0001-com-ubuntu-server-jammy:22_04-lts-gen2:latest",
		AdminUsername:  "adminuser",
	}, nil)
	deps.Provisioner.On("Provision", mock.Anything, mock.Anything).Return(nil)

	req := authed(t, httptest.NewRequest("POST", "/vm/start",
		strings.NewReader(`{"vmId":42,"adminPassword":"transient-pw"}`)))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "VM test created and started successfully.", resp["message"])
}

func TestStartVMNotFound(t *testing.T) {
	s, deps := newTestServer(t)

	deps.VMs.On("Get", mock.Anything, int64(999999)).Return(nil, store.ErrVMNotFound)

	req := authed(t, httptest.NewRequest("POST", "/vm/start",
		strings.NewReader(`{"vmId":999999,"adminPassword":"pw"}`)))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["message"], "not found")

	deps.Provisioner.AssertNotCalled(t, "Provision", mock.Anything, mock.Anything)
}

func TestStartVMMalformedImageReference(t *testing.T) {
	s, deps := newTestServer(t)

	deps.VMs.On("Get", mock.Anything, int64(42)).Return(&model.VMRecord{
		ID:             42,
		VMName:         "test",
		Location:       "eastus",
		VMSize:         "Standard_B1s",
		ImageReference: "Canonical:ubuntu",
		AdminUsername:  "adminuser",
	}, nil)

	req := authed(t, httptest.NewRequest("POST", "/vm/start",
		strings.NewReader(`{"vmId":42,"adminPassword":"pw"}`)))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	deps.Provisioner.AssertNotCalled(t, "Provision", mock.Anything, mock.Anything)
}

func TestStartVMBadBody(t *testing.T) {
	s, _ := newTestServer(t)

	for _, body := range []string{"not json", `{"vmId":0}`, `{"vmId":42}`} {
		req := authed(t, httptest.NewRequest("POST", "/vm/start", strings.NewReader(body)))
		w := httptest.NewRecorder()
		s.Router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestStartVMProvisionerFailure(t *testing.T) {
	s, deps := newTestServer(t)

	deps.VMs.On("Get", mock.Anything, int64(42)).Return(&model.VMRecord{
		ID:             42,
		VMName:         "test",
		Location:       "eastus",
		VMSize:         "Standard_B1s",
		ImageReference: "Canonical:ubuntu:22_04:latest",
		AdminUsername:  "adminuser",
	}, nil)
	deps.Provisioner.On("Provision", mock.Anything, mock.Anything).Return(assert.AnError)

	req := authed(t, httptest.NewRequest("POST", "/vm/start",
		strings.NewReader(`{"vmId":42,"adminPassword":"pw"}`)))
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeBody(t, w)
	assert.Equal(t, "Failed to create/start VM.", resp["message"])
}
