package endpoints

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/vaxlabs/vmvault/pkg/config"
	"github.com/vaxlabs/vmvault/pkg/pipeline"
	"github.com/vaxlabs/vmvault/pkg/server"
	"github.com/vaxlabs/vmvault/pkg/server/middleware"
)

var testSecret = "test-jwt-secret"

type testDeps struct {
	VMs         *MockVMStore
	Blobs       *MockBlobStore
	Provisioner *MockProvisioner
}

// newTestServer assembles a Server around mocked collaborators and
// registers all endpoints on it.
func newTestServer(t *testing.T) (*server.Server, *testDeps) {
	t.Helper()

	deps := &testDeps{
		VMs:         new(MockVMStore),
		Blobs:       new(MockBlobStore),
		Provisioner: new(MockProvisioner),
	}

	cfg := &config.Config{
		JWTSecret:        testSecret,
		ListLimitMax:     100,
		UploadLimitBytes: 1 << 20,
	}

	s := &server.Server{
		Router:        mux.NewRouter().UseEncodedPath(),
		VMStore:       deps.VMs,
		HealthStore:   deps.VMs,
		Upload:        pipeline.NewUpload(deps.Blobs, deps.VMs, cfg.UploadLimitBytes),
		Provision:     pipeline.NewProvision(deps.VMs, deps.Provisioner),
		JWTMiddleware: middleware.NewJWTAuthenticator([]byte(cfg.JWTSecret)),
		Config:        cfg,
	}
	RegisterAll(s)

	return s, deps
}

// testAuthHeader returns a valid Authorization header value.
func testAuthHeader(t *testing.T) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    "user-42",
		"email": "dev@vaxlabs.io",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

// multipartUpload builds a multipart request body with a vmFile part
// and the given form fields.
func multipartUpload(t *testing.T, filename string, payload []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if filename != "" {
		part, err := writer.CreateFormFile("vmFile", filename)
		require.NoError(t, err)
		_, err = part.Write(payload)
		require.NoError(t, err)
	}

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	return &body, writer.FormDataContentType()
}

func authed(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	req.Header.Set("Authorization", testAuthHeader(t))
	return req
}
