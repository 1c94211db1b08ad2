/*
Package scanner implements the concurrent scanning engine: file discovery,
a pool of scan workers streaming file content through a pattern matcher,
and aggregation of results, metrics, and failures.

Data flows through bounded channels only:

	root paths -> FileLocatorProcess -> work queue -> ScanWorker (xN)
	                                                     |
	                          coordinator loop <- result queue

Discovery runs fully concurrently with scanning; the bounded work queue
applies backpressure on discovery when workers fall behind, bounding memory
regardless of tree size. The coordinator (ScanWorkerPool.AwaitResults) is
the single consumer of the result queue and the only writer of scan status
and metrics.

Basic usage:

	s := scanner.NewScanner(scanner.Options{
		Paths:      []string{"/var/www"},
		Signatures: set,
		Workers:    4,
		ChunkSize:  scanner.DefaultChunkSize,
	}, afero.NewOsFs(), log, reporter)

	summary, err := s.Scan(ctx)
*/
package scanner
