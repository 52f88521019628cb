// Sample program that walks a dump and reports what's in it.
package main

import (
	"compress/bzip2"
	"flag"
	"log"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	mwdump "github.com/mwxml/go-mwdump"
)

var numWorkers int

var wg sync.WaitGroup

type tally struct {
	sync.Mutex
	pages      int64
	redirects  int64
	namespaces map[mwdump.RawNamespace]int64
}

var counts = tally{namespaces: map[mwdump.RawNamespace]int64{}}

func doPage(p *mwdump.Page[mwdump.RawNamespace]) {
	counts.Lock()
	defer counts.Unlock()
	counts.pages++
	if p.RedirectTitle != nil {
		counts.redirects++
	}
	counts.namespaces[p.Namespace]++
}

func pageHandler(ch <-chan *mwdump.Page[mwdump.RawNamespace]) {
	for p := range ch {
		doPage(p)
		wg.Done()
	}
}

func report() {
	counts.Lock()
	defer counts.Unlock()

	ids := make([]mwdump.RawNamespace, 0, len(counts.namespaces))
	for id := range counts.namespaces {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	log.Printf("%s pages, %s redirects",
		humanize.Comma(counts.pages), humanize.Comma(counts.redirects))
	for _, id := range ids {
		name := mwdump.Namespace(id).String()
		log.Printf("  ns %v (%v): %s pages",
			id, name, humanize.Comma(counts.namespaces[id]))
	}
}

func process(p mwdump.PageSource) {
	ch := make(chan *mwdump.Page[mwdump.RawNamespace], 1000)

	for i := 0; i < numWorkers; i++ {
		go pageHandler(ch)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	var err error
	for err == nil {
		var page *mwdump.Page[mwdump.RawNamespace]
		page, err = p.Next()
		if err == nil {
			wg.Add(1)
			ch <- page
		}

		pages++
		if pages%reportfreq == 0 {
			now := time.Now()
			d := now.Sub(prev)
			log.Printf("Processed %s pages total (%.2f/s)",
				humanize.Comma(pages), float64(reportfreq)/d.Seconds())
			prev = now
		}
	}
	wg.Wait()
	close(ch)
	d := time.Since(start)
	log.Printf("Ended with err after %v:  %v after %s pages (%.2f p/s)",
		d, err, humanize.Comma(pages), float64(pages)/d.Seconds())
	report()
}

func processSingleStream(filename string) {
	f, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer f.Close()

	z := bzip2.NewReader(f)

	process(mwdump.NewParser(z))
}

func processMultiStream(idx, data string) {
	p, err := mwdump.NewIndexedParser(idx, data, runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("Error initializing multistream parser: %v", err)
	}
	process(p)
}

func main() {
	var cpus int
	flag.IntVar(&numWorkers, "workers", 8, "Number of counting workers")
	flag.IntVar(&cpus, "cpus", runtime.GOMAXPROCS(0), "Number of CPUS to utilize")
	flag.Parse()

	runtime.GOMAXPROCS(cpus)

	switch flag.NArg() {
	case 1:
		processSingleStream(flag.Arg(0))
	case 2:
		processMultiStream(flag.Arg(0), flag.Arg(1))
	default:
		log.Fatalf("Need either a single stream dump, or index and multi-stream")
	}
}
