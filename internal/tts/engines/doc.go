// Package engines contains the backend adapters: gtts (Google Translate,
// online), espeak, coqui, piper and silero (offline). Each adapter
// implements tts.Engine and describes and probes itself; NewRegistry
// registers all of them with the outcome of their probes.
package engines
