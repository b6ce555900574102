// Package utils holds small path helpers for Pie source files and import
// paths. The preprocessor and the cmd/pie driver do not import it.
package utils

import (
	"path/filepath"
	"strings"
)

// SourceFileExt is the extension every Pie source file carries.
const SourceFileExt = ".pie"

// ResolveImportPath resolves an import path relative to a base directory
// if it starts with a dot, leaving absolute/bare module paths untouched.
func ResolveImportPath(baseDir, importPath string) string {
	if len(importPath) > 0 && importPath[0] == '.' {
		if baseDir != "." && baseDir != "" {
			return filepath.Join(baseDir, importPath)
		}
	}
	return importPath
}

// ExtractModuleName derives a module name from a file path: the base
// filename with its source extension stripped.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, SourceFileExt)
	return name
}

// GetModuleDir returns the directory context for a module path: the
// file's directory if path points at a .pie file, or path itself if it
// already names a directory.
func GetModuleDir(path string) string {
	if strings.HasSuffix(path, SourceFileExt) {
		return filepath.Dir(path)
	}
	return path
}
