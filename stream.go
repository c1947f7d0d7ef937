package qs

import (
	"fmt"
	"io"
)

// Decoder reads a query string from an [io.Reader] and decodes it into a Go
// value.
type Decoder struct {
	r    io.Reader
	opts Options
}

// NewDecoder creates a new [Decoder] that reads from r using
// [DefaultOptions].
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, opts: DefaultOptions}
}

// SetOptions replaces the parsing options used by subsequent calls to
// [Decoder.Decode].
func (d *Decoder) SetOptions(opts Options) {
	d.opts = opts
}

// Decode reads all remaining data from the underlying [io.Reader] and decodes
// it into v. v may be a *[Map] to receive the parsed structure itself.
func (d *Decoder) Decode(v interface{}) error {
	body, err := io.ReadAll(d.r)
	if err != nil {
		return fmt.Errorf("qs: failed to read body: %w", err)
	}

	return unmarshal(body, v, d.opts)
}

// Encoder writes bracket notation query strings to an [io.Writer].
type Encoder struct {
	w io.Writer
}

// NewEncoder creates a new [Encoder] that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode encodes v as a query string and writes it to the underlying
// [io.Writer].
func (e *Encoder) Encode(v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return err
	}

	_, err = e.w.Write(data)
	return err
}
