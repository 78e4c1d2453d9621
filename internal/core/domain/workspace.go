package domain

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultCollection is the collection used when none is configured.
const DefaultCollection = "documents"

// Workspace is an isolated set of uploaded documents and their index:
// a data directory plus a named collection inside it. Document
// management operations on one workspace are expected to be serialised
// by the caller; the core does not lock across them.
type Workspace struct {
	// DataDir holds the vector index and uploaded files.
	DataDir string `json:"data_dir"`

	// Collection names the index collection inside DataDir.
	Collection string `json:"collection"`
}

// NewWorkspace returns a workspace rooted at dataDir. Empty values fall
// back to ~/.docq/data and the default collection.
func NewWorkspace(dataDir, collection string) (Workspace, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Workspace{}, err
		}
		dataDir = filepath.Join(home, ".docq", "data")
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return Workspace{DataDir: dataDir, Collection: collection}, nil
}

// UploadDir is where the workspace keeps uploaded source documents.
func (w Workspace) UploadDir() string {
	return filepath.Join(w.DataDir, "uploads")
}

// NewSessionID returns a fresh conversation session identifier.
func NewSessionID() string {
	return uuid.New().String()
}
