package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// GenerateFilename returns <prefix_>YYYYMMDD_HHMMSS.<ext>.
func GenerateFilename(prefix, ext string, t time.Time) string {
	name := t.Format(timestampLayout) + "." + strings.TrimPrefix(ext, ".")
	if prefix != "" {
		name = prefix + "_" + name
	}
	return name
}

// ResolvePath turns a file sink target into a concrete path, creating
// the directories it needs:
//
//   - empty target: a generated name inside dir (or the working directory)
//   - a target ending in a separator, or an existing directory: a generated
//     name inside it
//   - anything else: the target itself
func ResolvePath(target, dir, prefix, ext string, now time.Time) (string, error) {
	var path string
	switch {
	case target == "":
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, GenerateFilename(prefix, ext, now))
	case isDirTarget(target):
		path = filepath.Join(target, GenerateFilename(prefix, ext, now))
	default:
		path = target
	}

	if parent := filepath.Dir(path); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", parent, err)
		}
	}
	return path, nil
}

func isDirTarget(target string) bool {
	if strings.HasSuffix(target, "/") || strings.HasSuffix(target, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(target)
	return err == nil && info.IsDir()
}
