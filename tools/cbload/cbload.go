// Load a wikipedia dump into CouchBase
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/couchbase/go-couchbase"
	"github.com/dustin/go-humanize"
	mwdump "github.com/mwxml/go-mwdump"
)

var numWorkers = flag.Int("numWorkers", 8, "Number of page workers")

var wg sync.WaitGroup

func init() {
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage:\n  %s [opts] wikipedia.index.bz2 wikipedia.xml.bz2\n",
		os.Args[0])
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
	os.Exit(1)
}

type Article struct {
	Ns       int32   `json:"ns"`
	Title    string  `json:"title"`
	Text     string  `json:"text"`
	Format   *string `json:"format,omitempty"`
	Model    *string `json:"model,omitempty"`
	Redirect *string `json:"redirect,omitempty"`
}

func doPage(db *couchbase.Bucket, p *mwdump.Page[mwdump.RawNamespace]) {
	article := Article{
		Ns:       p.Namespace,
		Title:    p.Title,
		Text:     p.Text,
		Format:   p.Format,
		Model:    p.Model,
		Redirect: p.RedirectTitle,
	}

	err := db.Set(p.Title, 0, article)
	if err != nil {
		log.Printf("Error setting %v: %v", p.Title, err)
		return
	}
}

func pageHandler(db *couchbase.Bucket, ch <-chan *mwdump.Page[mwdump.RawNamespace]) {
	defer wg.Done()
	for p := range ch {
		doPage(db, p)
	}
}

func main() {
	couchbaseServer := flag.String("couchbase", "http://localhost:8091/",
		"Couchbase URL")
	couchbaseBucket := flag.String("bucket", "default", "Couchbase bucket")
	procs := flag.Int("cpus", runtime.NumCPU(), "Number of CPUS to use")
	flag.Parse()

	runtime.GOMAXPROCS(*procs)

	db, err := couchbase.GetBucket(*couchbaseServer,
		"default", *couchbaseBucket)
	if err != nil {
		log.Fatalf("Error connecting to couchbase: %v", err)
	}

	p, err := mwdump.NewIndexedParser(flag.Arg(0), flag.Arg(1),
		runtime.GOMAXPROCS(0))
	if err != nil {
		log.Fatalf("Error initializing multistream parser: %v", err)
	}

	ch := make(chan *mwdump.Page[mwdump.RawNamespace], 1000)

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go pageHandler(db, ch)
	}

	pages := int64(0)
	start := time.Now()
	prev := start
	reportfreq := int64(1000)
	for err == nil {
		var page *mwdump.Page[mwdump.RawNamespace]
		page, err = p.Next()
		if err == nil {
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
	close(ch)
	wg.Wait()
	log.Printf("Ended with err after %v:  %v after %s pages",
		time.Now().Sub(start), err, humanize.Comma(pages))

}
