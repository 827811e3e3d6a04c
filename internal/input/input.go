// Package input opens the text sources that are measured.
package input

import (
	"errors"
	"io"
	"os"
	"strings"
)

// Source is a readable text stream and a short description of where it comes from.
type Source struct {
	Name   string
	Reader io.Reader
	files  []*os.File
}

// Open concatenates the named files, or returns stdin when paths is empty.
// A file missing its final newline gets one, so its last line never merges with the next file.
func Open(paths []string, stdin io.Reader) (*Source, error) {
	if len(paths) == 0 {
		return &Source{Name: "stdin", Reader: stdin}, nil
	}
	src := &Source{Name: strings.Join(paths, ",")}
	readers := make([]io.Reader, 0, len(paths))
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			if cerr := src.Close(); cerr != nil {
				// Best-effort close of already opened files.
				_ = cerr
			}
			return nil, err
		}
		src.files = append(src.files, file)
		readers = append(readers, &terminated{r: file})
	}
	src.Reader = io.MultiReader(readers...)
	return src, nil
}

// Close closes any files opened by Open.
func (s *Source) Close() error {
	var errs []error
	for _, f := range s.files {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.files = nil
	return errors.Join(errs...)
}

type terminated struct {
	r    io.Reader
	last byte
	seen bool
	eof  bool
}

func (t *terminated) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if t.eof {
		if t.seen && t.last != '\n' {
			p[0] = '\n'
			t.last = '\n'
			return 1, nil
		}
		return 0, io.EOF
	}
	n, err := t.r.Read(p)
	if n > 0 {
		t.last = p[n-1]
		t.seen = true
	}
	if err == io.EOF {
		t.eof = true
		if n > 0 {
			return n, nil
		}
		return t.Read(p)
	}
	return n, err
}
