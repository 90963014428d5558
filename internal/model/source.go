// Package model defines the data structures shared by the bundlekit layers.
package model

// Path represents a file system path.
type Path string

// String returns the path as a plain string.
func (p Path) String() string {
	return string(p)
}

// File represents a source file discovered for processing.
type File struct {
	// FullPath is the path used to read and write the file.
	FullPath Path
	// ShortPath is FullPath relative to the project root, for display.
	ShortPath Path
	// Hash is the content fingerprint at discovery time.
	Hash string
}
