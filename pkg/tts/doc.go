// Package tts is the library entry point: it turns text into speech with
// one of several backends and delivers the audio to files, the speakers
// or standard output.
//
//	svc, err := tts.New(tts.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	data, format, err := svc.Synthesize(ctx, "Hello", "gtts", "en")
//	...
//	paths, errs := svc.Deliver(ctx, data, format, []tts.SinkKind{tts.SinkFile}, "", "")
package tts
