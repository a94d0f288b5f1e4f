package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyActor = "actor"
)

// Pagination bounds.
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
