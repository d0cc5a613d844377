package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Guess layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrAlreadyDone   = "E_ALREADY_DONE"
	ErrNoGuide       = "E_NO_GUIDE"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrNoCandidate   = "E_NO_CANDIDATE"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrInvalidTarget:   {},
	ErrAlreadyDone:     {},
	ErrNoGuide:         {},
	ErrNoResource:      {},
	ErrNoCandidate:     {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
