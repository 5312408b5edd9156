package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrRateLimit       = "E_RATE_LIMIT"

	// Build layer. Geometry, population and slot rejections all surface as
	// ErrCannotPlace.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrBuildDisabled = "E_BUILD_DISABLED"
	ErrNoMaterials   = "E_NO_MATERIALS"
	ErrCannotPlace   = "E_CANNOT_PLACE"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrRateLimit:       {},
	ErrBadRequest:      {},
	ErrBuildDisabled:   {},
	ErrNoMaterials:     {},
	ErrCannotPlace:     {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
