///////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 xx foundation                                            //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

package rubyio

// PatternFile holds the text of a file so that mutable patterns can edit it.
// Close writes the text back, only if it changed, in the encoding it was
// decoded from.
type PatternFile struct {
	path     string
	contents string
	original string
	encoding string
	session  *Session
	closed   bool
}

// OpenPatternFile reads path for editing.
func (s *Session) OpenPatternFile(path string) (*PatternFile, error) {
	buf, err := s.Binread(path, ReadAll, 0)
	if err != nil {
		return nil, err
	}
	text, enc, err := s.codec.DecodeName(buf.Bytes(), s.policy)
	if err != nil {
		return nil, err
	}
	return &PatternFile{
		path:     path,
		contents: text,
		original: text,
		encoding: enc,
		session:  s,
	}, nil
}

// Encoding returns the name of the encoding the file was decoded with.
func (f *PatternFile) Encoding() string {
	return f.encoding
}

// Pattern returns a mutable matcher over the file's text.
func (f *PatternFile) Pattern(pattern, options string) (*MutablePatternMatcher, error) {
	return f.session.MutablePattern(&f.contents, pattern, options)
}

// Path returns the file being edited.
func (f *PatternFile) Path() string {
	return f.path
}

// Contents returns the current text.
func (f *PatternFile) Contents() string {
	return f.contents
}

// Changed reports whether the text differs from what was read.
func (f *PatternFile) Changed() bool {
	return f.contents != f.original
}

// Close writes the text back when it changed, re-encoded with Encoding.
// Text the encoding cannot represent is an error and the file is left as it
// was. Later calls return ErrAlreadyClosed.
func (f *PatternFile) Close() error {
	if f.closed {
		return ErrAlreadyClosed
	}
	f.closed = true
	if !f.Changed() {
		return nil
	}
	data, err := f.session.codec.Encode(f.contents, f.encoding)
	if err != nil {
		return f.session.policy.Report(err)
	}
	_, err = f.session.Binwrite(f.path, data, NoOffset)
	return err
}
