package schematic

import "errors"

var (
	// ErrLoadInvalid is returned when a snapshot fails structural
	// validation. No document state is built from a rejected snapshot.
	ErrLoadInvalid = errors.New("snapshot is structurally invalid")

	// ErrUnknownDevice is returned for operations naming a device instance
	// that is not in the document.
	ErrUnknownDevice = errors.New("unknown device")

	// ErrUnknownKind is returned when placing a device kind outside the
	// built-in library.
	ErrUnknownKind = errors.New("unknown device kind")

	// ErrNotWiring is returned by wire-tool operations outside an active
	// wiring gesture.
	ErrNotWiring = errors.New("wire tool is not active")
)
