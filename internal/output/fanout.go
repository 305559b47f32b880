package output

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/anca-ferro/tts/internal/tts"
)

// Player is the playback side of the Play sink.
type Player interface {
	PlayFile(ctx context.Context, path string) error
	PlayBytes(ctx context.Context, data []byte, format tts.AudioFormat) error
}

type flusher interface {
	Flush() error
}

// DeliveryReport is the outcome of one Deliver call. A kind appears in
// Errors only if its sink failed.
type DeliveryReport struct {
	Paths  map[SinkKind]string
	Errors map[SinkKind]error

	// SuppressText is set once audio went to stdout, so nothing else may
	// be printed there.
	SuppressText bool
}

// OK reports whether every sink succeeded.
func (r *DeliveryReport) OK() bool {
	return len(r.Errors) == 0
}

// Err joins all sink failures, or returns nil.
func (r *DeliveryReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, kind := range []SinkKind{SinkFile, SinkPlay, SinkStdout} {
		if err, ok := r.Errors[kind]; ok {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Fanout runs an artifact through a set of sinks.
type Fanout struct {
	audioDir string
	prefix   string
	player   Player
	stdout   io.Writer
	defaults []SinkSpec
	now      func() time.Time
}

// Option configures a Fanout.
type Option func(*Fanout)

// WithAudioDir sets the directory used when a file target is empty.
func WithAudioDir(dir string) Option {
	return func(f *Fanout) { f.audioDir = dir }
}

// WithPrefix sets the generated filename prefix.
func WithPrefix(prefix string) Option {
	return func(f *Fanout) { f.prefix = prefix }
}

// WithPlayer sets the Play sink's player.
func WithPlayer(p Player) Option {
	return func(f *Fanout) { f.player = p }
}

// WithStdout replaces os.Stdout as the Stdout sink's writer.
func WithStdout(w io.Writer) Option {
	return func(f *Fanout) { f.stdout = w }
}

// WithDefaultSinks sets the sinks used when Deliver gets none.
func WithDefaultSinks(specs []SinkSpec) Option {
	return func(f *Fanout) { f.defaults = specs }
}

// WithClock replaces time.Now for filename generation.
func WithClock(now func() time.Time) Option {
	return func(f *Fanout) { f.now = now }
}

// NewFanout returns a Fanout that plays by default.
func NewFanout(opts ...Option) *Fanout {
	f := &Fanout{
		stdout:   os.Stdout,
		defaults: []SinkSpec{{Kind: SinkPlay}},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Deliver runs the artifact through sinks in File, Play, Stdout order. A
// failing sink is recorded in the report and does not stop the others.
func (f *Fanout) Deliver(ctx context.Context, artifact *tts.AudioArtifact, sinks []SinkSpec) *DeliveryReport {
	report := &DeliveryReport{
		Paths:  make(map[SinkKind]string),
		Errors: make(map[SinkKind]error),
	}
	if len(sinks) == 0 {
		sinks = f.defaults
	}

	for _, spec := range normalize(sinks) {
		if err := ctx.Err(); err != nil {
			report.Errors[spec.Kind] = tts.DeliveryFailed(spec.Kind.String(), err)
			continue
		}

		var err error
		switch spec.Kind {
		case SinkFile:
			var path string
			path, err = f.writeFile(artifact, spec.Target)
			if err == nil {
				report.Paths[SinkFile] = path
			}
		case SinkPlay:
			err = f.play(ctx, artifact, report.Paths[SinkFile])
		case SinkStdout:
			// a failed write may still have put audio on stdout
			report.SuppressText = true
			err = f.writeStdout(artifact)
		default:
			err = fmt.Errorf("unsupported sink %s", spec.Kind)
		}

		if err != nil {
			log.Debug("Sink failed", "sink", spec.Kind, "error", err)
			report.Errors[spec.Kind] = tts.DeliveryFailed(spec.Kind.String(), err)
			continue
		}
		log.Debug("Sink delivered", "sink", spec.Kind, "bytes", artifact.Len())
	}

	return report
}

func (f *Fanout) writeFile(artifact *tts.AudioArtifact, target string) (string, error) {
	path, err := ResolvePath(target, f.audioDir, f.prefix, artifact.Extension(), f.now())
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, artifact.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func (f *Fanout) play(ctx context.Context, artifact *tts.AudioArtifact, writtenPath string) error {
	if f.player == nil {
		return tts.PlaybackUnavailable(errors.New("no player configured"))
	}
	if writtenPath != "" {
		return f.player.PlayFile(ctx, writtenPath)
	}
	return f.player.PlayBytes(ctx, artifact.Bytes(), artifact.Format)
}

func (f *Fanout) writeStdout(artifact *tts.AudioArtifact) error {
	if _, err := io.Copy(f.stdout, artifact.NewReader()); err != nil {
		return fmt.Errorf("failed to write stdout: %w", err)
	}
	if fl, ok := f.stdout.(flusher); ok {
		if err := fl.Flush(); err != nil {
			return fmt.Errorf("failed to flush stdout: %w", err)
		}
	}
	return nil
}
