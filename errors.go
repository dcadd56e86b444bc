package folio

import "errors"

// Sentinel errors. Callers match them with errors.Is; the returned errors wrap
// them with the offending name. None of them stop the scene.
var (
	// ErrResolutionMiss reports an interaction pattern that matched no node.
	ErrResolutionMiss = errors.New("folio: no node matches pattern")
	// ErrOverlayNotFound reports an overlay id with no registered panel.
	ErrOverlayNotFound = errors.New("folio: overlay not found")
	// ErrUnknownAction reports an action token outside the closed set.
	ErrUnknownAction = errors.New("folio: unknown action")
	// ErrMissingOverlayID reports a show_overlay entry without an overlay id.
	ErrMissingOverlayID = errors.New("folio: show_overlay without overlay id")
	// ErrUnknownPreset reports a camera preset id that is not configured.
	ErrUnknownPreset = errors.New("folio: unknown camera preset")
	// ErrNoContainer reports an open_container action before a container was bound.
	ErrNoContainer = errors.New("folio: no container bound")
	// ErrUnknownButton reports a page button with no interaction entry.
	ErrUnknownButton = errors.New("folio: unknown button")
	// ErrUnresolvedNode reports a dispatched entry with no bound scene node.
	ErrUnresolvedNode = errors.New("folio: interaction has no resolved node")
)
