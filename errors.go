package mwdump

import "fmt"

// A FormatError reports input that violates the expected dump structure:
// an unexpected element, a missing or duplicated required field, a
// non-integer ns value, a redirect without a title attribute. Offset is
// the byte position in the stream where the violation was detected.
type FormatError struct {
	Offset int64
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mwdump: invalid dump format at offset %d", e.Offset)
}

// An UnsupportedError reports a page carrying more than one revision
// element. Exports with full page history are out of scope; only the
// current revision of each page is modeled.
type UnsupportedError struct {
	Offset int64
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("mwdump: unsupported dump feature at offset %d", e.Offset)
}

// A NamespaceError reports an ns value that, while a valid integer, has
// no corresponding value in the caller's namespace representation. ID is
// the offending raw id exactly as parsed from the dump.
type NamespaceError struct {
	ID     RawNamespace
	Offset int64
}

func (e *NamespaceError) Error() string {
	return fmt.Sprintf("mwdump: unrecognized namespace %d at offset %d",
		e.ID, e.Offset)
}
