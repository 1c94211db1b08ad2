package scanner

// ScanMetrics aggregates per-worker file and byte counts. It is mutated
// only by the coordinator loop in response to file-processed events, so no
// locking is required; read totals only after the scan finishes.
type ScanMetrics struct {
	counts []int64
	bytes  []int64
}

// NewScanMetrics creates zeroed metrics for the given worker count.
func NewScanMetrics(workerCount int) *ScanMetrics {
	return &ScanMetrics{
		counts: make([]int64, workerCount),
		bytes:  make([]int64, workerCount),
	}
}

// RecordResult accumulates one processed file for a worker.
func (m *ScanMetrics) RecordResult(workerIndex int, length int64) {
	m.counts[workerIndex]++
	m.bytes[workerIndex] += length
}

// WorkerCount returns the number of tracked workers.
func (m *ScanMetrics) WorkerCount() int {
	return len(m.counts)
}

// WorkerCounts returns the file count for one worker.
func (m *ScanMetrics) WorkerCounts(workerIndex int) (files, bytes int64) {
	return m.counts[workerIndex], m.bytes[workerIndex]
}

// TotalCount returns the number of files processed across all workers.
func (m *ScanMetrics) TotalCount() int64 {
	var total int64
	for _, c := range m.counts {
		total += c
	}
	return total
}

// TotalBytes returns the number of bytes read across all workers.
func (m *ScanMetrics) TotalBytes() int64 {
	var total int64
	for _, b := range m.bytes {
		total += b
	}
	return total
}
