// Package audio plays synthesized speech on the local output device
// using oto/v3. MP3 and WAV files are decoded to 16-bit PCM, played on a
// lazily created device context, and polled until playback completes.
package audio
