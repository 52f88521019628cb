package mwdump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// An IndexEntry is one line of a multistream dump index: the byte
// offset of the bz2 stream a page lives in, the page's numeric id, and
// its name.
type IndexEntry struct {
	StreamOffset int64
	PageID       int64
	ArticleName  string
}

func (i IndexEntry) String() string {
	return fmt.Sprintf("%v:%v:%v", i.StreamOffset, i.PageID, i.ArticleName)
}

// An IndexReader reads a multistream index line by line.
//
// Published indexes wrapped their offsets at 32 bits for a long time.
// The reader undoes the wraparound, assuming offsets were meant to be
// incremental, so StreamOffset stays usable on dumps past 4GB.
type IndexReader struct {
	s          *bufio.Scanner
	base       int64
	prevOffset int64
}

// NewIndexReader gets an index reader over a stream of index lines.
func NewIndexReader(r io.Reader) *IndexReader {
	return &IndexReader{s: bufio.NewScanner(r)}
}

var errBadIndexLine = errors.New("malformed index line")

// Next gets the next entry from the index stream.
func (ir *IndexReader) Next() (IndexEntry, error) {
	if !ir.s.Scan() {
		err := ir.s.Err()
		if err == nil {
			err = io.EOF
		}
		return IndexEntry{}, err
	}
	offfield, rest, ok := strings.Cut(ir.s.Text(), ":")
	if !ok {
		return IndexEntry{}, errBadIndexLine
	}
	idfield, name, ok := strings.Cut(rest, ":")
	if !ok {
		return IndexEntry{}, errBadIndexLine
	}

	offset, err := strconv.ParseInt(offfield, 10, 64)
	if err != nil {
		return IndexEntry{}, err
	}
	id, err := strconv.ParseInt(idfield, 10, 64)
	if err != nil {
		return IndexEntry{}, err
	}

	if offset < ir.prevOffset {
		ir.base += 1 << 32
	}
	ir.prevOffset = offset

	return IndexEntry{
		StreamOffset: offset + ir.base,
		PageID:       id,
		ArticleName:  name,
	}, nil
}

// IndexSummaryReader collapses an index into stream offsets and page
// counts.
//
// If you don't care which articles are in a stream, just how many and
// where, this is for you.
type IndexSummaryReader struct {
	index      *IndexReader
	prevOffset int64
	count      int
}

// NewIndexSummaryReader gets a new IndexSummaryReader from the given
// stream of index lines.
func NewIndexSummaryReader(r io.Reader) (*IndexSummaryReader, error) {
	rv := &IndexSummaryReader{index: NewIndexReader(r)}
	first, err := rv.index.Next()
	if err != nil {
		return nil, err
	}
	rv.prevOffset = first.StreamOffset
	rv.count = 1
	return rv, nil
}

// Next gets the next offset and count from the index summary reader.
//
// Note that the last chunk comes back with io.EOF as the error, but a
// valid offset and count.
func (isr *IndexSummaryReader) Next() (offset int64, count int, err error) {
	for {
		e, err := isr.index.Next()
		if err != nil {
			offset, count = isr.prevOffset, isr.count
			isr.prevOffset, isr.count = 0, 0
			return offset, count, err
		}
		if e.StreamOffset != isr.prevOffset {
			offset, count = isr.prevOffset, isr.count
			isr.prevOffset, isr.count = e.StreamOffset, 1
			return offset, count, nil
		}
		isr.count++
	}
}
