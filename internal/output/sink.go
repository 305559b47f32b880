package output

import (
	"fmt"
	"sort"
	"strings"
)

// SinkKind identifies a delivery destination. Kinds are ordered by the
// sequence in which they run.
type SinkKind int

const (
	SinkFile SinkKind = iota
	SinkPlay
	SinkStdout
)

var sinkNames = map[SinkKind]string{
	SinkFile:   "file",
	SinkPlay:   "play",
	SinkStdout: "stdout",
}

func (k SinkKind) String() string {
	if name, ok := sinkNames[k]; ok {
		return name
	}
	return fmt.Sprintf("sink(%d)", int(k))
}

// ParseSinkKind maps a configured sink name to its kind.
func ParseSinkKind(name string) (SinkKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for kind, s := range sinkNames {
		if s == n {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown sink %q (want file, play or stdout)", name)
}

// SinkSpec is one requested destination. Target is only meaningful for
// SinkFile, where it names the output path or directory.
type SinkSpec struct {
	Kind   SinkKind
	Target string
}

// ParseSinks converts configured sink names into specs.
func ParseSinks(names []string) ([]SinkSpec, error) {
	specs := make([]SinkSpec, 0, len(names))
	for _, name := range names {
		kind, err := ParseSinkKind(name)
		if err != nil {
			return nil, err
		}
		specs = append(specs, SinkSpec{Kind: kind})
	}
	return specs, nil
}

// normalize keeps the first spec of each kind and orders the result
// File, Play, Stdout.
func normalize(specs []SinkSpec) []SinkSpec {
	seen := make(map[SinkKind]bool, len(specs))
	out := make([]SinkSpec, 0, len(specs))
	for _, s := range specs {
		if seen[s.Kind] {
			continue
		}
		seen[s.Kind] = true
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
