////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                             //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package rubyio

import (
	"io"

	"github.com/pkg/errors"
)

// LineSeparator is the default record separator for line operations.
const LineSeparator = "\n"

// ReadAll may be passed as a length to ReadData to read everything that
// remains.
const ReadAll = -1

// Stream is the interface shared by StreamHandle and StringStream. The io
// methods make every Stream usable with the standard library, and the line
// and record methods give Ruby IO semantics on top.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer

	// ReadLine returns the next record up to sep with the separator removed.
	// It returns io.EOF once the stream is exhausted.
	ReadLine(sep string) (string, error)
	// EachLine calls visitor for every record until end of stream or until
	// it has been called limit times. A limit <= 0 means no limit.
	EachLine(sep string, limit int, visitor func(line string)) error
	// ReadLines collects the records EachLine would visit.
	ReadLines(sep string, limit int) ([]string, error)
	// ReadData reads up to length bytes (ReadAll for everything remaining)
	// into out, or into a new buffer when out is nil.
	ReadData(length int, out *ByteBuffer) (*ByteBuffer, error)
	// Getc returns the next byte as a one character string.
	Getc() (string, error)
	// Tell returns the current read/write position.
	Tell() (int64, error)
	// Rewind moves to the start of the stream and resets line counting.
	Rewind() error
	// EOF reports whether the next read would hit end of stream.
	EOF() bool
}

// lineReader is the single primitive the shared line helpers need.
type lineReader interface {
	ReadLine(sep string) (string, error)
}

// eachLine drives ReadLine for EachLine on every Stream implementation.
func eachLine(r lineReader, sep string, limit int, visitor func(string)) error {
	count := 0
	for {
		line, err := r.ReadLine(sep)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		visitor(line)
		count++
		if limit > 0 && count >= limit {
			return nil
		}
	}
}

func readLines(r lineReader, sep string, limit int) ([]string, error) {
	var out []string
	err := eachLine(r, sep, limit, func(line string) {
		out = append(out, line)
	})
	return out, err
}

// chompRecord strips the separator from a record; for the default newline
// separator a preceding carriage return is removed as well.
func chompRecord(record []byte, sep string) []byte {
	if len(record) >= len(sep) && string(record[len(record)-len(sep):]) == sep {
		record = record[:len(record)-len(sep)]
		if sep == LineSeparator && len(record) > 0 &&
			record[len(record)-1] == '\r' {
			record = record[:len(record)-1]
		}
	}
	return record
}
