package repository

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithSubscriberBuffer sets how many boards a slow subscriber may lag
// before older ones are dropped in favour of the newest.
func WithSubscriberBuffer(n int) Option {
	return func(s *SnapshotStore) {
		if n > 0 {
			s.subscriberBuffer = n
		}
	}
}
