package domain

// RetrievalOptions controls a retrieval call.
type RetrievalOptions struct {
	// TopK is the number of results to return. Zero means the configured
	// default.
	TopK int

	// Filename restricts results to chunks whose filename metadata
	// equals this value. Empty means no filter.
	Filename string

	// MMR enables maximal-marginal-relevance selection: a larger
	// candidate pool of FetchK hits is fetched first, then TopK results
	// are picked balancing relevance against dissimilarity to already
	// selected results.
	MMR bool

	// FetchK is the MMR candidate pool size. Ignored unless MMR is set;
	// zero means the configured default.
	FetchK int

	// Lambda is the MMR trade-off: 1.0 is pure relevance, 0.0 pure
	// diversity.
	Lambda float64
}

// RetrievedChunk is one ranked retrieval result with metadata intact.
type RetrievedChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// IngestStats summarises one directory ingestion run.
type IngestStats struct {
	// Processed counts files that were parsed (or served from cache),
	// chunked and indexed.
	Processed int `json:"processed"`

	// Skipped counts hidden files and unsupported extensions.
	Skipped int `json:"skipped"`

	// Failed counts files whose parsing failed; they yield zero chunks
	// but do not abort the batch.
	Failed int `json:"failed"`

	// Chunks is the total number of chunks indexed.
	Chunks int `json:"chunks"`
}
