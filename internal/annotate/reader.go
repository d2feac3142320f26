package annotate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadSource reads the translation unit named by path, the "source file
// reader used by the annotator" spec §1 lists as out-of-scope for the
// core but still part of this repo's end-to-end pipeline.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// OutputPath implements spec §6's CLI surface default: "<base>_openmp<ext>".
func OutputPath(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + "_openmp" + ext
}

// WriteAnnotated writes the annotated source to OutputPath(sourcePath).
func WriteAnnotated(sourcePath, annotated string) (string, error) {
	out := OutputPath(sourcePath)
	if err := os.WriteFile(out, []byte(annotated), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}
