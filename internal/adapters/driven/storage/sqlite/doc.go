// Package sqlite provides the SQLite-backed vector store. Entries
// live in named collections inside a single database file under the
// workspace data directory; embeddings are stored as little-endian
// float32 blobs and searched with a brute-force cosine scan.
package sqlite
