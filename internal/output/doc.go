// Package output delivers a synthesized AudioArtifact to its sinks: a file
// on disk, the playback device and standard output.
package output
