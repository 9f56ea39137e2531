package playback

import "time"

// Source is the underlying audio resource: the runtime handle actually
// responsible for rendering one clip at a time. The coordinator owns at
// most one open Source.
type Source interface {
	// Play starts or resumes rendering.
	Play() error
	// Pause halts rendering without releasing the resource.
	Pause()
	// Seek moves the rendering position. The coordinator clamps the value
	// before calling.
	Seek(pos time.Duration)
	// Close releases the resource. No callbacks may be delivered after
	// Close returns, but in-flight ones are tolerated: the coordinator
	// discards callbacks from released sources.
	Close()
}

// Events receives the asynchronous callbacks a Source fires. Every
// callback performs its own atomic state update inside the coordinator.
type Events interface {
	// MetadataLoaded delivers the clip duration once known.
	MetadataLoaded(d time.Duration)
	// Progress delivers the current rendering position while playing.
	Progress(pos time.Duration)
	// Ended signals the clip reached its natural end.
	Ended()
	// Failed signals the resource cannot be loaded or rendered.
	Failed(err error)
}

// SourceFactory opens a Source for the given resource locator, delivering
// its callbacks to sink. The factory must not invoke sink callbacks before
// it returns.
type SourceFactory func(locator string, sink Events) (Source, error)
