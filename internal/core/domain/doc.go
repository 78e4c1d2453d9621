// Package domain contains the core types of the document QA pipeline:
// parsed elements, retrievable chunks and their identities, retrieval
// options and answers. It has no dependencies on adapters or services.
package domain
