package ports

// Presenter abstracts the display backend.
type Presenter interface {
	// CreateSurface opens a display surface sized for width x height frames.
	CreateSurface(width, height int) (Surface, error)
}

// Surface is a display target owned by the goroutine that created it.
// None of its methods may be called from any other goroutine.
type Surface interface {
	// Present paints one I420 frame. Implementations must not retain
	// planes after returning.
	Present(planes [][]byte, strides []int) error

	// PollQuit services pending input and reports whether the user asked to quit.
	PollQuit() bool

	// VSync reports whether Present blocks on the display refresh.
	// When true the caller does not pace ticks itself.
	VSync() bool

	// Destroy releases the surface and its window.
	Destroy() error
}
