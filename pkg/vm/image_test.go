package vm

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocalc/pkg/arith"
)

func TestImageRoundTrip(t *testing.T) {
	img := Image{
		Source:    "8 / 2 + 0",
		Optimized: true,
		Created:   time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Program:   Program{Push(8), Push(2), Apply(arith.Div), Push(0), Apply(arith.Add)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteImage(&buf, img))

	got, err := ReadImage(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, img.Source, got.Source)
	assert.Equal(t, img.Optimized, got.Optimized)
	assert.True(t, img.Created.Equal(got.Created))
	assert.Equal(t, img.Program, got.Program)

	result, err := Execute(got.Program)
	require.NoError(t, err)
	assert.Equal(t, int64(4), result)
}

func TestImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.bin")
	img := Image{Source: "1 + 2", Program: Program{Push(3)}}

	require.NoError(t, SaveImage(path, img))
	got, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, img.Program, got.Program)
	assert.False(t, got.Created.IsZero(), "zero Created should be stamped on write")
}

func TestReadImage_Errors(t *testing.T) {
	t.Run("NotAZip", func(t *testing.T) {
		_, err := ReadImage([]byte("plain text"))
		assert.ErrorContains(t, err, "open zip")
	})

	t.Run("MissingCode", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		require.NoError(t, writeZipEntry(zw, "manifest.json", []byte(`{"version":1}`)))
		require.NoError(t, zw.Close())

		_, err := ReadImage(buf.Bytes())
		assert.ErrorContains(t, err, `"code.bin" not found`)
	})

	t.Run("WrongVersion", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		require.NoError(t, writeZipEntry(zw, "manifest.json", []byte(`{"version":99}`)))
		require.NoError(t, writeZipEntry(zw, "code.bin", nil))
		require.NoError(t, zw.Close())

		_, err := ReadImage(buf.Bytes())
		assert.ErrorContains(t, err, "unsupported format version 99")
	})

	t.Run("CountMismatch", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		require.NoError(t, writeZipEntry(zw, "manifest.json", []byte(`{"version":1,"instructions":2}`)))
		require.NoError(t, writeZipEntry(zw, "code.bin", EncodeProgram(Program{Push(1)})))
		require.NoError(t, zw.Close())

		_, err := ReadImage(buf.Bytes())
		assert.ErrorContains(t, err, "manifest lists 2 instructions")
	})
}
