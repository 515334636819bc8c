package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iotali/rrpc-harness/pkg/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileService_IsFileExists(t *testing.T) {
	fs := file.NewFileService()
	path := filepath.Join(t.TempDir(), "present.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	exists, err := fs.IsFileExists(path)
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = fs.IsFileExists(filepath.Join(t.TempDir(), "absent.txt"))
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestFileService_ReadWriteRaw(t *testing.T) {
	fs := file.NewFileService()
	path := filepath.Join(t.TempDir(), "raw.bin")
	data := []byte{0x01, 0x03, 0x84, 0x0A}

	require.NoError(t, fs.WriteFileRaw(path, data))

	got, err := fs.ReadFileRaw(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestFileService_ReadYamlFile(t *testing.T) {
	fs := file.NewFileService()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: oven\nqos: 1\n"), 0600))

	var out struct {
		Name string `yaml:"name"`
		QOS  int    `yaml:"qos"`
	}
	require.NoError(t, fs.ReadYamlFile(path, &out))
	assert.Equal(t, "oven", out.Name)
	assert.Equal(t, 1, out.QOS)
}
