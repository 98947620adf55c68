package handler

const (
	// APIPath is the prefix of every JSON route.
	APIPath = "/api"

	// RootPath is the root path the route group.
	RootPath = "/"

	// ParamID is the path parameter holding an entity id.
	ParamID = "id"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
