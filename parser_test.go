package mwdump

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

const testDump = `
<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page>
        <ns>0</ns>
        <title>alpha</title>
        <revision>
            <format>beta</format>
            <model>gamma</model>
            <text>delta</text>
        </revision>
    </page>
    <page>
        <title>epsilon</title>
        <ns>42</ns>
        <redirect title="zeta" />
        <revision>
            <text>eta</text>
        </revision>
    </page>
</mediawiki>`

func strp(s string) *string {
	return &s
}

func collect(t *testing.T, p *Parser[RawNamespace]) []*Page[RawNamespace] {
	t.Helper()
	var rv []*Page[RawNamespace]
	for {
		page, err := p.Next()
		if err == io.EOF {
			return rv
		}
		if err != nil {
			t.Fatalf("Error reading page %d: %v", len(rv)+1, err)
		}
		rv = append(rv, page)
	}
}

func TestParser(t *testing.T) {
	pages := collect(t, NewParser(strings.NewReader(testDump)))
	expected := []*Page[RawNamespace]{
		{
			Namespace: 0,
			Title:     "alpha",
			Format:    strp("beta"),
			Model:     strp("gamma"),
			Text:      "delta",
		},
		{
			Namespace:     42,
			Title:         "epsilon",
			RedirectTitle: strp("zeta"),
			Text:          "eta",
		},
	}
	if !reflect.DeepEqual(pages, expected) {
		t.Fatalf("Expected %+v, got %+v", expected, pages)
	}
}

func TestParserEOFLatch(t *testing.T) {
	p := NewParser(strings.NewReader(testDump))
	collect(t, p)
	for i := 0; i < 2; i++ {
		if _, err := p.Next(); err != io.EOF {
			t.Errorf("Expected io.EOF past the end, got %v", err)
		}
	}
}

func TestParserIdempotent(t *testing.T) {
	first := collect(t, NewParser(strings.NewReader(testDump)))
	second := collect(t, NewParser(strings.NewReader(testDump)))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Two readings disagree: %+v vs %+v", first, second)
	}
}

func TestParserSkipsUnknown(t *testing.T) {
	dump := `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <siteinfo>
        <sitename>Wikipedia</sitename>
        <namespaces><namespace key="0"/><namespace key="1">Talk</namespace></namespaces>
    </siteinfo>
    <page>
        <id>17</id>
        <ns>0</ns>
        <title>alpha</title>
        <fancy><deeply><nested/></deeply></fancy>
        <revision>
            <timestamp>2001-01-15T13:15:00Z</timestamp>
            <contributor><username>somebody</username></contributor>
            <text>delta</text>
        </revision>
    </page>
</mediawiki>`
	pages := collect(t, NewParser(strings.NewReader(dump)))
	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %v", len(pages))
	}
	if pages[0].Title != "alpha" || pages[0].Text != "delta" {
		t.Fatalf("Unexpected page: %+v", pages[0])
	}
	if pages[0].Format != nil || pages[0].Model != nil {
		t.Fatalf("Expected absent format and model, got %+v", pages[0])
	}
}

func TestParserSkipsForeignNamespace(t *testing.T) {
	// Elements with the right name in the wrong namespace are unknown.
	dump := `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/"
    xmlns:x="urn:elsewhere">
    <x:page><x:title>not me</x:title></x:page>
    <page>
        <ns>0</ns>
        <title>alpha</title>
        <x:revision><x:text>ignored</x:text></x:revision>
        <revision>
            <x:text>also ignored</x:text>
            <text>delta</text>
        </revision>
    </page>
</mediawiki>`
	pages := collect(t, NewParser(strings.NewReader(dump)))
	if len(pages) != 1 {
		t.Fatalf("Expected 1 page, got %v", len(pages))
	}
	if pages[0].Text != "delta" {
		t.Fatalf("Expected text delta, got %q", pages[0].Text)
	}
}

func TestParserEmptyText(t *testing.T) {
	dump := `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title>alpha</title><revision><text/></revision></page>
</mediawiki>`
	pages := collect(t, NewParser(strings.NewReader(dump)))
	if len(pages) != 1 || pages[0].Text != "" {
		t.Fatalf("Expected one page with empty text, got %+v", pages)
	}
}

func TestParserFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		dump string
	}{
		{"wrong root",
			`<notawiki xmlns="http://www.mediawiki.org/xml/export-0.10/"/>`},
		{"root without export namespace",
			`<mediawiki><page/></mediawiki>`},
		{"no root at all",
			`<!-- nothing here -->`},
		{"missing ns",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><title>alpha</title><revision><text>delta</text></revision></page>
</mediawiki>`},
		{"missing title",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><revision><text>delta</text></revision></page>
</mediawiki>`},
		{"missing revision",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title>alpha</title></page>
</mediawiki>`},
		{"missing text",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title>alpha</title><revision><model>wikitext</model></revision></page>
</mediawiki>`},
		{"duplicate title",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title>alpha</title><title>beta</title>
    <revision><text>delta</text></revision></page>
</mediawiki>`},
		{"duplicate ns",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><ns>0</ns><title>alpha</title>
    <revision><text>delta</text></revision></page>
</mediawiki>`},
		{"duplicate model",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title>alpha</title>
    <revision><model>a</model><model>b</model><text>delta</text></revision></page>
</mediawiki>`},
		{"non-integer ns",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>zero</ns><title>alpha</title><revision><text>delta</text></revision></page>
</mediawiki>`},
		{"redirect without title attribute",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title>alpha</title><redirect/>
    <revision><text>delta</text></revision></page>
</mediawiki>`},
		{"child element inside scalar field",
			`<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title><b>alpha</b></title>
    <revision><text>delta</text></revision></page>
</mediawiki>`},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := NewParser(strings.NewReader(test.dump))
			var err error
			for err == nil {
				_, err = p.Next()
			}
			fe := &FormatError{}
			if !errors.As(err, &fe) {
				t.Fatalf("Expected a format error, got %v", err)
			}
			if fe.Offset <= 0 {
				t.Errorf("Expected a positive offset, got %v", fe.Offset)
			}
			if _, again := p.Next(); again != err {
				t.Errorf("Expected the same error again, got %v", again)
			}
		})
	}
}

func TestParserSecondRevision(t *testing.T) {
	dump := `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page>
        <ns>0</ns>
        <title>alpha</title>
        <revision><text>delta</text></revision>
        <revision><text>older</text></revision>
    </page>
</mediawiki>`
	p := NewParser(strings.NewReader(dump))
	_, err := p.Next()
	ue := &UnsupportedError{}
	if !errors.As(err, &ue) {
		t.Fatalf("Expected an unsupported feature error, got %v", err)
	}
	fe := &FormatError{}
	if errors.As(err, &fe) {
		t.Fatalf("Second revision should not be a plain format error")
	}
	if ue.Offset <= 0 {
		t.Errorf("Expected a positive offset, got %v", ue.Offset)
	}
}

func TestParserLexicalErrorsPassThrough(t *testing.T) {
	dump := `<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
    <page><ns>0</ns><title>alpha`
	p := NewParser(strings.NewReader(dump))
	_, err := p.Next()
	if err == nil {
		t.Fatal("Expected an error from a truncated dump")
	}
	fe := &FormatError{}
	if errors.As(err, &fe) {
		t.Fatalf("Expected the decoder's own error unchanged, got %v", err)
	}
}

func TestParserNamespaceResolution(t *testing.T) {
	p := NewParserWithNamespace(strings.NewReader(testDump),
		StandardNamespaces.Func())

	page, err := p.Next()
	if err != nil {
		t.Fatalf("Error reading first page: %v", err)
	}
	if page.Namespace != Main {
		t.Errorf("Expected namespace %v, got %v", Main, page.Namespace)
	}

	// The second page is in namespace 42, which no standard wiki defines.
	_, err = p.Next()
	ne := &NamespaceError{}
	if !errors.As(err, &ne) {
		t.Fatalf("Expected a namespace error, got %v", err)
	}
	if ne.ID != 42 {
		t.Errorf("Expected offending id 42, got %v", ne.ID)
	}
}
