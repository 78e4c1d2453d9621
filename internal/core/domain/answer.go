package domain

// SourceRef cites one retrieved chunk used while answering.
type SourceRef struct {
	SourceID  int       `json:"source_id"`
	Filename  string    `json:"filename"`
	Page      *int      `json:"page,omitempty"`
	ChunkType ChunkType `json:"chunk_type"`
	ChunkID   string    `json:"chunk_id"`
}

// Answer is the result of one question over the indexed documents.
type Answer struct {
	Text    string      `json:"answer"`
	Sources []SourceRef `json:"sources"`

	// NumSources is the number of retrieved chunks fed to the model.
	NumSources int `json:"num_sources_used"`
}
