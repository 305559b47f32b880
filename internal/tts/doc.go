// Package tts holds the synthesis core: engine identifiers and
// descriptors, the error taxonomy, input validation, the engine registry
// and the dispatcher that turns text into an AudioArtifact.
//
// Engine adapters live in the engines subpackage and register themselves
// through engines.NewRegistry. Delivery of artifacts to files, the audio
// device or stdout is handled by internal/output.
package tts
