package pokemon

import "errors"

// Sentinel errors for the pokemon service layer. Every error returned by
// Service wraps exactly one of these.
var (
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("pokemon already exists")
	ErrNotFound   = errors.New("pokemon not found")
	ErrUnknown    = errors.New("unknown error")
)

// Kind names an error category for transport mapping and metrics labels.
type Kind string

const (
	KindOK         Kind = "ok"
	KindBadRequest Kind = "bad_request"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindUnknown    Kind = "unknown"
)

// KindOf classifies err. A nil error is KindOK; anything unrecognised is KindUnknown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindUnknown
	}
}
