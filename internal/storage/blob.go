// Package storage keeps uploaded quiz source documents.
package storage

import (
	"io"
	"path"
	"strings"
)

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
}

// SourceKey is where the document a quiz was generated from is kept.
func SourceKey(quizID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		name = "source"
	}
	return path.Join("sources", quizID, name)
}
