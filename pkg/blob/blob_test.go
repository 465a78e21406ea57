package blob

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vaxlabs/vmvault/pkg/model"
)

func TestDeriveKeyCarriesFilenameAndExtension(t *testing.T) {
	key := DeriveKey("img.qcow2", model.CodecZstd)

	assert.True(t, strings.HasSuffix(key, ".zst"), "key %q should end in codec extension", key)
	assert.Contains(t, key, "img.qcow2")
}

func TestDeriveKeyIsCollisionResistant(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := DeriveKey("img.qcow2", model.CodecZstd)
		assert.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestDeriveKeyStripsPathComponents(t *testing.T) {
	key := DeriveKey("../../etc/passwd", model.CodecGzip)
	assert.NotContains(t, key, "/")
	assert.Contains(t, key, "passwd")

	key = DeriveKey("..\\windows\\system.img", model.CodecGzip)
	assert.NotContains(t, key, "\\")
	assert.Contains(t, key, "system.img")
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "img.qcow2", "img.qcow2"},
		{"spaces replaced", "my disk.img", "my_disk.img"},
		{"empty falls back", "", "upload"},
		{"dot falls back", ".", "upload"},
		{"unicode replaced", "ディスク.img", "____.img"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeFilename(tt.in))
		})
	}
}

func TestAzureStoreURL(t *testing.T) {
	s := &AzureStore{
		accountURL: "https://vaxlabs.blob.core.windows.net",
		container:  "vaxlabs-vms",
	}
	assert.Equal(t,
		"https://vaxlabs.blob.core.windows.net/vaxlabs-vms/123-abc-img.qcow2.zst",
		s.URL("123-abc-img.qcow2.zst"),
	)
}
