package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/anca-ferro/tts/internal/output"
	"github.com/anca-ferro/tts/internal/tts"
)

type sinkFlags struct {
	output string
	save   bool
	play   bool
	noPlay bool
	stdout bool
}

// selectSinks turns the output flags into sink specs. Without explicit
// sinks the configured defaults apply; --no-play removes Play from them
// and falls back to saving a file when nothing is left.
func selectSinks(f sinkFlags, defaults []string) ([]output.SinkSpec, error) {
	if f.play && f.noPlay {
		return nil, tts.InvalidOptions("cannot specify both --play and --no-play")
	}

	var specs []output.SinkSpec
	if f.output != "" || f.save {
		specs = append(specs, output.SinkSpec{Kind: output.SinkFile, Target: f.output})
	}
	if f.play {
		specs = append(specs, output.SinkSpec{Kind: output.SinkPlay})
	}
	if f.stdout {
		specs = append(specs, output.SinkSpec{Kind: output.SinkStdout})
	}
	if len(specs) > 0 {
		return specs, nil
	}

	configured, err := output.ParseSinks(defaults)
	if err != nil {
		return nil, tts.InvalidOptions(err.Error())
	}
	for _, s := range configured {
		if f.noPlay && s.Kind == output.SinkPlay {
			continue
		}
		specs = append(specs, s)
	}
	if len(specs) == 0 {
		specs = append(specs, output.SinkSpec{Kind: output.SinkFile})
	}
	return specs, nil
}

func hasSink(specs []output.SinkSpec, kind output.SinkKind) bool {
	for _, s := range specs {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

// printSummary reports the sinks that succeeded. Failures are returned
// to the caller and printed as errors.
func printSummary(w io.Writer, engine string, size int, format tts.AudioFormat, sinks []output.SinkSpec, report *output.DeliveryReport) {
	fmt.Fprintf(w, "%s %s of %s audio from %s\n",
		okStyle.Render("✓"), humanize.Bytes(uint64(size)), format, engine) //nolint:gosec

	for _, s := range sinks {
		if _, failed := report.Errors[s.Kind]; failed {
			continue
		}
		switch s.Kind {
		case output.SinkFile:
			fmt.Fprintf(w, "%s saved to %s\n", okStyle.Render("✓"), report.Paths[output.SinkFile])
		case output.SinkPlay:
			fmt.Fprintf(w, "%s played\n", okStyle.Render("✓"))
		case output.SinkStdout:
			fmt.Fprintf(w, "%s written to stdout\n", okStyle.Render("✓"))
		}
	}
}
