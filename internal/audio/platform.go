package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Platform is the operating system playback runs on.
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformDarwin  Platform = "darwin"
	PlatformWindows Platform = "windows"
	PlatformUnknown Platform = "unknown"
)

// AudioSubsystem is the sound server or API oto ends up talking to.
type AudioSubsystem string

const (
	AudioSubsystemALSA       AudioSubsystem = "alsa"
	AudioSubsystemPulseAudio AudioSubsystem = "pulseaudio"
	AudioSubsystemCoreAudio  AudioSubsystem = "coreaudio"
	AudioSubsystemWASAPI     AudioSubsystem = "wasapi"
	AudioSubsystemNone       AudioSubsystem = "none"
)

// ciVariables are environment variables set by common CI providers.
var ciVariables = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"JENKINS_URL",
	"TRAVIS",
	"CIRCLECI",
	"BUILDKITE",
	"DRONE",
	"TEAMCITY_VERSION",
}

// PlatformInfo describes the host's audio capabilities.
type PlatformInfo struct {
	OS             Platform
	AudioSubsystem AudioSubsystem
	HasAudioDevice bool
	IsCI           bool
}

// DetectPlatform probes the host for an audio subsystem and output device.
func DetectPlatform() *PlatformInfo {
	info := &PlatformInfo{
		OS:   platformOf(runtime.GOOS),
		IsCI: IsCI(),
	}

	switch info.OS {
	case PlatformLinux:
		info.AudioSubsystem = linuxSubsystem()
		info.HasAudioDevice = linuxHasDevice()
	case PlatformDarwin:
		info.AudioSubsystem = AudioSubsystemCoreAudio
		info.HasAudioDevice = true
	case PlatformWindows:
		info.AudioSubsystem = AudioSubsystemWASAPI
		info.HasAudioDevice = true
	default:
		info.AudioSubsystem = AudioSubsystemNone
	}

	log.Debug("Platform detected",
		"os", info.OS,
		"audio", info.AudioSubsystem,
		"has_device", info.HasAudioDevice,
		"is_ci", info.IsCI)

	return info
}

func platformOf(goos string) Platform {
	switch goos {
	case "linux":
		return PlatformLinux
	case "darwin":
		return PlatformDarwin
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// IsCI reports whether a CI provider's environment variable is set.
func IsCI() bool {
	for _, name := range ciVariables {
		if val := os.Getenv(name); val != "" && val != "false" {
			log.Debug("CI environment detected", "variable", name)
			return true
		}
	}
	return false
}

func linuxSubsystem() AudioSubsystem {
	if _, err := exec.LookPath("pactl"); err == nil {
		if out, err := exec.Command("pactl", "info").Output(); err == nil &&
			strings.Contains(string(out), "Server Name") {
			return AudioSubsystemPulseAudio
		}
	}
	if _, err := os.Stat("/proc/asound"); err == nil {
		return AudioSubsystemALSA
	}
	if _, err := exec.LookPath("aplay"); err == nil {
		return AudioSubsystemALSA
	}
	return AudioSubsystemNone
}

func linuxHasDevice() bool {
	if entries, err := os.ReadDir("/dev/snd"); err == nil {
		for _, entry := range entries {
			if strings.HasPrefix(entry.Name(), "pcm") {
				return true
			}
		}
	}
	if content, err := os.ReadFile("/proc/asound/cards"); err == nil &&
		len(content) > 0 && !strings.Contains(string(content), "no soundcards") {
		return true
	}
	return false
}

// Unavailable returns a reason playback cannot work here, or "" when a
// device is expected to be present.
func (p *PlatformInfo) Unavailable() string {
	switch {
	case os.Getenv("TTS_MOCK_AUDIO") != "":
		return "TTS_MOCK_AUDIO set"
	case p.IsCI:
		return "CI environment"
	case p.AudioSubsystem == AudioSubsystemNone:
		return "no audio subsystem"
	case !p.HasAudioDevice:
		return "no audio devices"
	}
	return ""
}

// BufferSize returns the oto buffer length suited to the platform.
func (p *PlatformInfo) BufferSize() time.Duration {
	switch p.OS {
	case PlatformDarwin:
		return 100 * time.Millisecond
	case PlatformWindows:
		return 80 * time.Millisecond
	case PlatformLinux:
		// ALSA underruns with large buffers
		if p.AudioSubsystem == AudioSubsystemPulseAudio {
			return 60 * time.Millisecond
		}
		return 50 * time.Millisecond
	default:
		return 50 * time.Millisecond
	}
}

func (p *PlatformInfo) String() string {
	return fmt.Sprintf("Platform{OS: %s, Audio: %s, HasDevice: %v, IsCI: %v}",
		p.OS, p.AudioSubsystem, p.HasAudioDevice, p.IsCI)
}
