package audio

// Backend is the audio monitor/capture surface the FrameOrchestrator's
// audio-pull step (spec §4.8 step 2) drains each tick: it plays back
// whatever PCM source it was set up with (so the engine can monitor the
// active paint's soundtrack) while tee-ing the same samples into a Ring
// for the Analyzer to consume. Two implementations exist, selected by
// build tag exactly as the teacher splits OtoPlayer: the real one
// (backend_oto.go, `!headless`) and a silent stand-in (backend_headless.go,
// `headless`) used in CI and tests where no audio device exists.
type Backend interface {
	// SetSource installs the PCM sample source to monitor; nil silences
	// playback while leaving the ring running on zeros.
	SetSource(src SampleSource)
	Start() error
	Stop()
	Close()
	Ring() *Ring
}

// SampleSource yields mono float32 PCM samples on demand, matching the
// shape of a decoded paint's audio track.
type SampleSource interface {
	ReadSamples(buf []float32) (n int, err error)
}
