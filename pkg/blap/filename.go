package blap

import (
	"path/filepath"
	"strings"
)

// CarFromFileName derives a car name from file names like
// "1_1770926596963_313251_porsche992rgt3.blap".
// Numeric tokens are ignored. If no token is a known car path the remaining
// tokens are returned joined by blanks.
func CarFromFileName(fileName string) (string, bool) {
	base := filepath.Base(fileName)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	parts := []string{}
	for _, p := range strings.Split(base, "_") {
		if !allDigits(p) {
			parts = append(parts, p)
		}
	}
	for _, p := range parts {
		if name, ok := CarName(p); ok {
			return name, true
		}
	}
	if name, ok := CarName(base); ok {
		return name, true
	}
	if len(parts) > 0 {
		return strings.Join(parts, " "), true
	}
	return "", false
}
