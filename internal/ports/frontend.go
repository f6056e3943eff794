package ports

// Frontend defines the lifecycle of a user-facing surface (the HTTP UI)
type Frontend interface {
	// Start starts serving; it must not block
	Start() error

	// Stop shuts the surface down
	Stop() error
}
