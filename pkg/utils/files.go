// Package utils holds small filesystem helpers shared by the commands.
package utils

import (
	"path/filepath"
	"strings"
)

// ResolvePath returns the absolute, cleaned form of path and the directory
// that contains it.
func ResolvePath(path string) (abs string, dir string, err error) {
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	return abs, filepath.Dir(abs), nil
}

// ReplaceExt swaps the extension of path for ext, or appends ext when path
// has none.
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
