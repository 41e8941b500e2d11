// Package transform holds the mime-type-keyed transforms applied to
// uploaded files before they reach their final path
package transform

import "strings"

// Category is the typed lookup key. Mime strings are categorized once on
// dequeue instead of being compared all over the worker.
type Category int

const (
	CategoryOther Category = iota
	CategoryImage
	CategoryPDF
	CategoryArchive
)

// Categorize maps a declared mime type to its transform category.
// Anything unknown is CategoryOther and passes through untouched,
// never an error.
func Categorize(mimeType string) Category {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return CategoryImage
	case mimeType == "application/pdf":
		return CategoryPDF
	case mimeType == "application/zip", mimeType == "application/x-rar-compressed":
		return CategoryArchive
	default:
		return CategoryOther
	}
}

// Result is a replacement byte buffer plus the canonical extension and
// content type of the new format.
type Result struct {
	Data        []byte
	Extension   string
	ContentType string
}

// Transform converts raw bytes into a possibly smaller representation.
// Returning (nil, nil) declines the job and the original bytes are used
// unchanged. Errors fail the processing attempt.
type Transform interface {
	Apply(data []byte) (*Result, error)
}

type Registry struct {
	transforms map[Category]Transform
}

func NewRegistry(imageMaxDim, imageQuality int) *Registry {
	return &Registry{
		transforms: map[Category]Transform{
			CategoryImage:   NewImage(imageMaxDim, imageQuality),
			CategoryPDF:     PDF{},
			CategoryArchive: Archive{},
		},
	}
}

// Lookup returns the transform registered for the mime type, or nil
// when the file should be stored as-is.
func (r *Registry) Lookup(mimeType string) Transform {
	return r.transforms[Categorize(mimeType)]
}
