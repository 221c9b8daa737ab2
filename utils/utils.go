package utils

import (
	"path/filepath"
	"strings"
)

// BuildDirPath constructs os-agnostic display directory path with trailing separator preserving all components.
// Unlike filepath.Join, does not normalize "." or remove redundant separators.
func BuildDirPath(dirs ...string) string {
	return strings.Join(dirs, string(filepath.Separator)) + string(filepath.Separator)
}

// PadMode left-pads a tree entry mode with zeros to six digits for display ("40000" -> "040000").
func PadMode(mode string) string {
	if len(mode) >= 6 {
		return mode
	}
	return strings.Repeat("0", 6-len(mode)) + mode
}
