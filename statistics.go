package mempool

// Statistics describes the current shape of a ResourcePool: how much memory
// it owns and how that memory is split between the free list and consumers.
type Statistics struct {
	// ResourceCount is the number of Resources the pool owns
	ResourceCount int
	// ResourceBytes is the combined usable size of every owned Resource
	ResourceBytes int
	// AvailableCount is the number of Regions currently in the free list
	AvailableCount int
	// OutstandingCount is the number of Regions acquired but not yet released
	OutstandingCount int
}

func (s *Statistics) Clear() {
	s.ResourceCount = 0
	s.ResourceBytes = 0
	s.AvailableCount = 0
	s.OutstandingCount = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.ResourceCount += other.ResourceCount
	s.ResourceBytes += other.ResourceBytes
	s.AvailableCount += other.AvailableCount
	s.OutstandingCount += other.OutstandingCount
}

// DetailedStatistics extends Statistics with running operation counters
// accumulated over the pool's lifetime.
type DetailedStatistics struct {
	Statistics
	// AcquireCount is the number of Regions handed out, counting each element
	// of a bulk acquire separately
	AcquireCount int
	// ReleaseCount is the number of Regions returned, counting each element
	// of a bulk release separately
	ReleaseCount int
	// GrowthCount is the number of allocation batches the pool has performed,
	// including the eager batch at construction
	GrowthCount int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.AcquireCount = 0
	s.ReleaseCount = 0
	s.GrowthCount = 0
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.AcquireCount += other.AcquireCount
	s.ReleaseCount += other.ReleaseCount
	s.GrowthCount += other.GrowthCount
}
