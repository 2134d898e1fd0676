package shared

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors
	ErrMissingConfig = errors.New("configuration not found")
	ErrInvalidConfig = errors.New("invalid configuration")

	// API and service errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrTrackNotFound      = errors.New("track not found")
	ErrAlbumNotFound      = errors.New("album not found")
	ErrSingerNotFound     = errors.New("singer not found")

	// Storage errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrStorage          = errors.New("storage failure")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
