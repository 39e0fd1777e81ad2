package vm

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// ImageFormatVersion is written to every manifest; ReadImage rejects others.
const ImageFormatVersion = 1

// Image is a compiled program plus the metadata needed to reproduce it.
type Image struct {
	Source    string
	Optimized bool
	Created   time.Time
	Program   Program
}

// manifest is the JSON entry stored next to code.bin.
type manifest struct {
	Version      int       `json:"version"`
	Source       string    `json:"source"`
	Optimized    bool      `json:"optimized"`
	Instructions int       `json:"instructions"`
	Created      time.Time `json:"created"`
}

// WriteImage stores img as a ZIP archive holding manifest.json and code.bin.
func WriteImage(w io.Writer, img Image) error {
	zw := zip.NewWriter(w)

	created := img.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	m := manifest{
		Version:      ImageFormatVersion,
		Source:       img.Source,
		Optimized:    img.Optimized,
		Instructions: len(img.Program),
		Created:      created,
	}
	jsonData, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("image: marshal manifest: %w", err)
	}
	if err := writeZipEntry(zw, "manifest.json", jsonData); err != nil {
		return err
	}
	if err := writeZipEntry(zw, "code.bin", EncodeProgram(img.Program)); err != nil {
		return err
	}
	return zw.Close()
}

// ReadImage parses an archive produced by WriteImage.
func ReadImage(data []byte) (Image, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Image{}, fmt.Errorf("image: open zip: %w", err)
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "manifest.json")
	if err != nil {
		return Image{}, err
	}
	var m manifest
	if err := json.Unmarshal(jsonData, &m); err != nil {
		return Image{}, fmt.Errorf("image: unmarshal manifest: %w", err)
	}
	if m.Version != ImageFormatVersion {
		return Image{}, fmt.Errorf("image: unsupported format version %d", m.Version)
	}

	code, err := readZipEntry(fileMap, "code.bin")
	if err != nil {
		return Image{}, err
	}
	p, err := DecodeProgram(code)
	if err != nil {
		return Image{}, fmt.Errorf("image: %w", err)
	}
	if len(p) != m.Instructions {
		return Image{}, fmt.Errorf("image: manifest lists %d instructions, code.bin has %d", m.Instructions, len(p))
	}

	return Image{
		Source:    m.Source,
		Optimized: m.Optimized,
		Created:   m.Created,
		Program:   p,
	}, nil
}

// SaveImage writes img to path.
func SaveImage(path string, img Image) error {
	var buf bytes.Buffer
	if err := WriteImage(&buf, img); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadImage reads an image archive from path.
func LoadImage(path string) (Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Image{}, err
	}
	return ReadImage(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("image: create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("image: zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("image: open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
