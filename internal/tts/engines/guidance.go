package engines

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// BuildGTTSGuidance explains why the Google Translate backend cannot be used.
func BuildGTTSGuidance(baseURL string, err error) string {
	return fmt.Sprintf("The gtts base URL %q is not usable: %v\n"+
		"    Set gtts.base_url (or GTTS_BASE_URL) to an http(s) URL,\n"+
		"    default https://translate.google.com", baseURL, err)
}

// BuildEspeakGuidance returns install instructions for espeak-ng.
func BuildEspeakGuidance() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install espeak-ng"
	case "linux":
		switch distro := detectLinuxDistro(); distro {
		case "debian", "ubuntu":
			return "Install with: sudo apt-get install espeak-ng"
		case "fedora", "rhel":
			return "Install with: sudo dnf install espeak-ng"
		case "arch":
			return "Install with: sudo pacman -S espeak-ng"
		}
		return "Install espeak-ng with your package manager"
	case "windows":
		return "Download from: https://github.com/espeak-ng/espeak-ng/releases\n    Install and add to PATH"
	default:
		return "Install espeak-ng from: https://github.com/espeak-ng/espeak-ng"
	}
}

// BuildCoquiGuidance returns install instructions for the Coqui tts CLI.
func BuildCoquiGuidance(command string) string {
	return fmt.Sprintf("Coqui TTS command %q not found.\n"+
		"    Install with pip:\n"+
		"    pip install coqui-tts\n"+
		"    Or set coqui.command (COQUI_COMMAND) to the tts executable.\n"+
		"    Models are downloaded by the backend on first use.", command)
}

// BuildPiperGuidance returns install instructions for the piper binary.
func BuildPiperGuidance() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install piper-tts\n    Or download from: https://github.com/rhasspy/piper/releases"
	default:
		return "Download from: https://github.com/rhasspy/piper/releases\n    Extract and add to PATH, or: pip install piper-tts"
	}
}

// BuildPiperVoiceGuidance explains how to fetch a missing piper voice.
func BuildPiperVoiceGuidance(voice, dir string, files []RemoteFile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Piper voice %s is not installed.\n", voice)
	b.WriteString("    Download:\n")
	for _, f := range files {
		fmt.Fprintf(&b, "    wget -P %s %s\n", dir, f.URL)
	}
	b.WriteString("    Or enable piper.auto_download (PIPER_AUTO_DOWNLOAD=true).")
	return b.String()
}

// BuildSileroGuidance explains how to install the Silero helper runtime.
func BuildSileroGuidance(command string) string {
	return fmt.Sprintf("Silero helper command %q not found.\n"+
		"    The helper reads text on stdin and writes 16-bit PCM on stdout.\n"+
		"    Install torch (pip install torch) and a helper, then set\n"+
		"    silero.command (SILERO_COMMAND) using {model_path}, {speaker}\n"+
		"    and {sample_rate} placeholders.", command)
}

// BuildSileroModelGuidance explains how to fetch missing Silero weights.
func BuildSileroModelGuidance(model, dir, url string) string {
	return fmt.Sprintf("Silero model %s is not downloaded.\n"+
		"    Download: wget -P %s %s\n"+
		"    Or enable silero.auto_download (SILERO_AUTO_DOWNLOAD=true).", model, dir, url)
}

// detectLinuxDistro attempts to detect the Linux distribution.
func detectLinuxDistro() string {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		return "unknown"
	}
	content := strings.ToLower(string(data))
	for _, d := range []string{"ubuntu", "debian", "fedora", "arch"} {
		if strings.Contains(content, d) {
			return d
		}
	}
	if strings.Contains(content, "rhel") || strings.Contains(content, "centos") {
		return "rhel"
	}
	return "unknown"
}
