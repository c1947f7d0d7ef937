package qs

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
)

// ParseMultipart reads every part of a multipart/form-data body and folds
// the form fields, in the order they arrive, as [ParsePairsWithOptions]
// does. The whole body of each part becomes the field value, file uploads
// included. Parts without a form name are skipped.
func ParseMultipart(r *multipart.Reader, opts Options) (*Map, error) {
	var pairs []Pair
	for {
		part, err := r.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("qs: reading multipart body: %w", err)
		}

		name := part.FormName()
		if name == "" {
			part.Close()
			continue
		}

		body, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("qs: reading part %q: %w", name, err)
		}
		pairs = append(pairs, Pair{Name: name, Value: string(body)})
	}
	return ParsePairsWithOptions(pairs, opts), nil
}
