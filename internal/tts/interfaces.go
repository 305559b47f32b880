package tts

import (
	"context"
)

// Engine defines the contract every synthesis backend adapter fulfils.
// Adapters translate their backend's native output (files, buffers or
// raw samples) into encoded audio bytes.
type Engine interface {
	// ID returns the engine identifier the adapter is registered under.
	ID() EngineID

	// Synthesize converts text to encoded audio bytes.
	// Backend failures are returned wrapped, never swallowed.
	Synthesize(ctx context.Context, text string, cfg SynthesisConfig) ([]byte, error)
}

// FileRoundTripper is implemented by adapters whose backend can only write
// to a file. Those adapters go through WithTempFile on every call.
type FileRoundTripper interface {
	RequiresFileRoundTrip() bool
}

// Prober is implemented by adapters that can check their runtime
// requirements (binaries, models, network configuration) up front.
// A nil error means the engine is usable.
type Prober interface {
	Probe(ctx context.Context) error
}

// Describer is implemented by adapters that know their own static metadata.
type Describer interface {
	Descriptor() EngineDescriptor
}
