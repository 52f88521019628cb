package mwdump

import (
	"compress/bzip2"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// A PageSource is anything that emits dump pages with raw namespaces.
// Both the single-stream parser and the indexed multistream parser
// satisfy it.
type PageSource interface {
	Next() (*Page[RawNamespace], error)
}

// Each stream of a multistream dump holds bare page elements. A
// synthetic root in front of the stream gives the extraction loop the
// well-formed document it expects; the unclosed root is never read past
// since exactly the indexed number of pages is pulled per stream.
const streamHeader = `<mediawiki xmlns="` + ExportNamespace + `">`

type indexChunk struct {
	offset int64
	count  int
}

type multiStreamParser struct {
	workerch chan indexChunk
	entries  chan *Page[RawNamespace]
}

func multiStreamIndexWorker(indexfn string, p *multiStreamParser) {
	defer close(p.workerch)

	r, err := os.Open(indexfn)
	if err != nil {
		log.Fatalf("Error opening %v: %v", indexfn, err)
	}
	defer r.Close()

	isr, err := NewIndexSummaryReader(bzip2.NewReader(r))
	if err != nil {
		log.Fatalf("Error creating index summary: %v", err)
	}
	for {
		offset, count, err := isr.Next()
		p.workerch <- indexChunk{offset, count}
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("Error reading index:  %v", err)
		}
	}
}

func multiStreamWorker(datafn string, wg *sync.WaitGroup,
	p *multiStreamParser) {
	defer wg.Done()

	r, err := os.Open(datafn)
	if err != nil {
		log.Fatalf("Error opening %v: %v", datafn, err)
	}
	defer r.Close()

	for chunk := range p.workerch {
		if _, err := r.Seek(chunk.offset, 0); err != nil {
			log.Fatalf("Error seeking to specified offset: %v", err)
		}
		parser := NewParser(io.MultiReader(
			strings.NewReader(streamHeader), bzip2.NewReader(r)))
		for i := 0; i < chunk.count; i++ {
			page, err := parser.Next()
			if err != nil {
				break
			}
			p.entries <- page
		}
	}
}

// NewIndexedParser gets a parser that works through a multistream dump
// and its index with numWorkers parallel decompressors. Page order
// follows stream completion, not document order.
func NewIndexedParser(indexfn, datafn string, numWorkers int) (PageSource, error) {
	r, err := os.Open(datafn)
	if err != nil {
		return nil, err
	}
	r.Close()

	rv := &multiStreamParser{
		workerch: make(chan indexChunk, 1000),
		entries:  make(chan *Page[RawNamespace], 1000),
	}

	wg := sync.WaitGroup{}
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go multiStreamWorker(datafn, &wg, rv)
	}

	go multiStreamIndexWorker(indexfn, rv)

	go func() {
		wg.Wait()
		close(rv.entries)
	}()

	return rv, nil
}

func (p *multiStreamParser) Next() (*Page[RawNamespace], error) {
	rv, ok := <-p.entries
	if !ok {
		return nil, io.EOF
	}
	return rv, nil
}
