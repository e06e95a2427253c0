package dedupe

// Option applies a configuration option to the in-memory tracker.
type Option func(*inMemoryTracker)

// WithCapacityHint pre-sizes the set, usually to the roster length.
// Non-positive values are ignored.
func WithCapacityHint(n int) Option {
	return func(t *inMemoryTracker) {
		if n > 0 {
			t.capacityHint = n
		}
	}
}
