package engines

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

func homePath(elem ...string) string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home}, elem...)...)
}

func isDir(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// CoquiModelsDir picks where Coqui keeps its weights: the override, then
// a project-local ./.coquitts when it exists, then ~/.local/share/tts.
func CoquiModelsDir(override string) string {
	if override != "" {
		return override
	}
	if isDir(".coquitts") {
		return ".coquitts"
	}
	return homePath(".local", "share", "tts")
}

// SileroModelsDir picks where Silero weights live: the override, then
// ~/.silerotts when it exists, then the torch hub cache.
func SileroModelsDir(override string) string {
	if override != "" {
		return override
	}
	if dir := homePath(".silerotts"); isDir(dir) {
		return dir
	}
	return homePath(".cache", "torch", "hub")
}

// PiperVoiceDirs lists the directories searched for voices, in priority
// order. Empty entries are dropped.
func PiperVoiceDirs(override string) []string {
	candidates := []string{
		override,
		filepath.Join(".pipertts", "voices"),
		homePath(".local", "share", "piper", "voices"),
		"/usr/share/piper/voices",
		"voices",
	}
	dirs := make([]string, 0, len(candidates))
	for _, d := range candidates {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// PiperDownloadDir is where missing voices are stored: the override when
// set, else ~/.local/share/piper/voices.
func PiperDownloadDir(override string) string {
	if override != "" {
		return override
	}
	return homePath(".local", "share", "piper", "voices")
}
