package netgraph

import "errors"

var (
	// ErrUnknownVertex is returned when an operation references a vertex
	// that does not exist (never allocated, or already removed).
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrUnknownEdge is returned when an operation references an edge
	// that does not exist (never allocated, or already removed).
	ErrUnknownEdge = errors.New("unknown edge")

	// ErrDuplicateEdge is returned by [Graph.AddEdge] and [Graph.RestoreEdge]
	// when an edge between the same unordered endpoint pair already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrSelfLoop is returned by [Graph.AddEdge] and [Graph.RestoreEdge]
	// when both endpoints are the same vertex. Wire segments always connect
	// two distinct points of connectivity.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrVertexInUse is returned by [Graph.RemoveVertex] when the vertex is
	// still referenced by at least one edge. Callers must remove incident
	// edges first; the ordering is enforced rather than cascaded so that
	// history diffs stay unambiguous.
	ErrVertexInUse = errors.New("vertex still referenced by an edge")

	// ErrIDOccupied is returned by the Restore operations when the target
	// identifier is already live. Restores may only revive identifiers whose
	// element was previously removed, or fill a reserved slot.
	ErrIDOccupied = errors.New("identifier already in use")

	// ErrIDUnallocated is returned by the Restore operations when the target
	// identifier was never handed out by this graph. Identifiers are only
	// minted through Add or Reserve calls.
	ErrIDUnallocated = errors.New("identifier was never allocated")
)
