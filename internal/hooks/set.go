package hooks

// Hook function signatures, one per phase.
//
// Contract (applied uniformly across all components):
//   - pre receives nothing. Returning a non-nil value short-circuits
//     the dispatch: the underlying method and all later phases are
//     skipped and that value becomes the result.
//   - process receives the current result and must return the
//     (possibly replaced) result. Returning nil is a real replacement,
//     not a passthrough.
//   - post receives nothing and returns only an error. Its side
//     effects are the point; any result shaping is over by then.
//
// Errors returned by any hook propagate to the caller unmodified.
type (
	PreFunc     func() (any, error)
	ProcessFunc func(result any) (any, error)
	PostFunc    func() error
)

// Set is a component's dispatch table: at most one hook per
// (point, phase) slot. A component may fill zero, one, or many of the
// slots, independently of other components.
//
// Set is built once at component construction and read-only afterwards.
type Set struct {
	pre     map[Point]PreFunc
	process map[Point]ProcessFunc
	post    map[Point]PostFunc
}

// NewSet returns an empty dispatch table.
func NewSet() *Set {
	return &Set{
		pre:     make(map[Point]PreFunc),
		process: make(map[Point]ProcessFunc),
		post:    make(map[Point]PostFunc),
	}
}

// OnPre registers a pre-phase hook for point. Fails with ErrUnknownHook
// if point is outside the closed set.
func (s *Set) OnPre(point Point, fn PreFunc) error {
	if !point.Valid() {
		return unknownHook(point)
	}
	s.pre[point] = fn
	return nil
}

// OnProcess registers a process-phase hook for point.
func (s *Set) OnProcess(point Point, fn ProcessFunc) error {
	if !point.Valid() {
		return unknownHook(point)
	}
	s.process[point] = fn
	return nil
}

// OnPost registers a post-phase hook for point.
func (s *Set) OnPost(point Point, fn PostFunc) error {
	if !point.Valid() {
		return unknownHook(point)
	}
	s.post[point] = fn
	return nil
}

// Pre returns the pre-hook for point, or nil if the slot is empty.
// Lookups with an invalid point fail with ErrUnknownHook, which is
// distinct from any downstream method failure.
func (s *Set) Pre(point Point) (PreFunc, error) {
	if !point.Valid() {
		return nil, unknownHook(point)
	}
	return s.pre[point], nil
}

// Process returns the process-hook for point, or nil if absent.
func (s *Set) Process(point Point) (ProcessFunc, error) {
	if !point.Valid() {
		return nil, unknownHook(point)
	}
	return s.process[point], nil
}

// Post returns the post-hook for point, or nil if absent.
func (s *Set) Post(point Point) (PostFunc, error) {
	if !point.Valid() {
		return nil, unknownHook(point)
	}
	return s.post[point], nil
}

// Empty reports whether no hooks are registered at all.
func (s *Set) Empty() bool {
	return len(s.pre) == 0 && len(s.process) == 0 && len(s.post) == 0
}
