// Package services implements the application use cases: document
// ingestion, chunk indexing, retrieval and question answering. Services
// depend only on the driven ports; adapters are wired in by the CLI
// layer.
package services
