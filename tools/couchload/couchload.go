// Load a wikipedia dump into CouchDB
package main

import (
	"compress/bzip2"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-couch"
	"github.com/dustin/go-humanize"
	"github.com/dustin/httputil"
	mwdump "github.com/mwxml/go-mwdump"
)

var wg sync.WaitGroup

type Article struct {
	ID       string  `json:"_id"`
	Rev      string  `json:"_rev,omitempty"`
	Ns       int32   `json:"ns"`
	Text     string  `json:"text"`
	Format   *string `json:"format,omitempty"`
	Model    *string `json:"model,omitempty"`
	Redirect *string `json:"redirect,omitempty"`
}

func escapeTitle(in string) string {
	return strings.Replace(strings.Replace(in, "/", "%2f", -1),
		"+", "%2b", -1)
}

func resolveConflict(db *couch.Database, a *Article) {
	log.Printf("Resolving conflict on %s", a.ID)
	var prev Article
	err := db.Retrieve(a.ID, &prev)
	if err != nil {
		log.Printf("  Error retrieving existing %v: %v", a.ID, err)
		return
	}
	if prev.Rev == "" {
		log.Printf("Got no rev from %v", a.ID)
		return
	}
	_, err = db.EditWith(a, a.ID, prev.Rev)
	if err != nil {
		log.Printf("  Error updating %v: %v", a.ID, err)
	}
}

func doPage(db *couch.Database, p *mwdump.Page[mwdump.RawNamespace]) {
	defer wg.Done()
	article := Article{
		ID:       escapeTitle(p.Title),
		Ns:       p.Namespace,
		Text:     p.Text,
		Format:   p.Format,
		Model:    p.Model,
		Redirect: p.RedirectTitle,
	}

	_, _, err := db.Insert(&article)
	switch {
	case err == nil:
		// yay
	case httputil.IsHTTPStatus(err, 409):
		resolveConflict(db, &article)
	default:
		log.Printf("Error inserting %#v: %v", article, err)
	}
}

func pageHandler(db couch.Database, ch <-chan *mwdump.Page[mwdump.RawNamespace]) {
	for p := range ch {
		doPage(&db, p)
	}
}

func main() {
	dburl, file := os.Args[1], os.Args[2]

	db, err := couch.Connect(dburl)
	if err != nil {
		log.Fatalf("Error connecting to couchdb: %v", err)
	}

	f, err := os.Open(file)
	if err != nil {
		log.Fatalf("Error opening file: %v", err)
	}
	defer f.Close()

	p := mwdump.NewParser(bzip2.NewReader(f))

	ch := make(chan *mwdump.Page[mwdump.RawNamespace], 1000)

	for i := 0; i < 20; i++ {
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
	log.Printf("Ended with err after %v:  %v after %s pages",
		time.Now().Sub(start), err, humanize.Comma(pages))

}
