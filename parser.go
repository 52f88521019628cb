package mwdump

import (
	"encoding/xml"
	"io"
	"strconv"
)

// ExportNamespace is the XML namespace of the supported export schema.
// Elements with the right local name but a different (or no) namespace
// binding are treated as unknown and skipped.
const ExportNamespace = "http://www.mediawiki.org/xml/export-0.10/"

// That which emits dump pages, generic over the namespace representation.
//
// A Parser is driven strictly forward by calling Next; it holds no
// resources beyond its own buffers and is not safe for concurrent use.
// Independent parsers over independent readers are fully independent.
type Parser[N any] struct {
	d       *xml.Decoder
	resolve NamespaceFunc[N]
	started bool
	err     error
}

// NewParser gets a dump parser reading from the given reader, keeping
// namespaces as their raw ids. Hand it an already decompressed stream;
// for the usual .bz2 dumps wrap the file in bzip2.NewReader first.
func NewParser(r io.Reader) *Parser[RawNamespace] {
	return NewParserWithNamespace(r, func(id RawNamespace) (RawNamespace, bool) {
		return id, true
	})
}

// NewParserWithNamespace gets a dump parser that converts every raw
// namespace id through fn into the caller's own namespace type.
func NewParserWithNamespace[N any](r io.Reader, fn NamespaceFunc[N]) *Parser[N] {
	return &Parser[N]{d: xml.NewDecoder(r), resolve: fn}
}

// Next gets the next page from the parser.
//
// io.EOF signals the end of the dump. Any return with a non-nil error,
// io.EOF included, leaves the parser permanently exhausted; further
// calls return the same error.
func (p *Parser[N]) Next() (*Page[N], error) {
	if p.err != nil {
		return nil, p.err
	}
	page, err := p.next()
	if err != nil {
		p.err = err
		return nil, err
	}
	return page, nil
}

func (p *Parser[N]) next() (*Page[N], error) {
	if !p.started {
		if err := p.findRoot(); err != nil {
			return nil, err
		}
		p.started = true
	}
	for {
		t, err := p.d.Token()
		if err != nil {
			return nil, err
		}
		switch t := t.(type) {
		case xml.EndElement:
			// The root closed; the dump is done.
			return nil, io.EOF
		case xml.StartElement:
			if !known(t.Name, "page") {
				if err := p.skip(); err != nil {
					return nil, err
				}
				continue
			}
			return p.readPage()
		}
	}
}

// findRoot discards leading markup until the opening mediawiki element.
// Any other element opening the document, including a mediawiki element
// outside the export namespace, is malformed.
func (p *Parser[N]) findRoot() error {
	for {
		t, err := p.d.Token()
		if err == io.EOF {
			return &FormatError{Offset: p.d.InputOffset()}
		}
		if err != nil {
			return err
		}
		if t, ok := t.(xml.StartElement); ok {
			if !known(t.Name, "mediawiki") {
				return &FormatError{Offset: p.d.InputOffset()}
			}
			return nil
		}
	}
}

// readPage collects the children of the page element just opened and
// builds the record, ending at the page's close tag.
func (p *Parser[N]) readPage() (*Page[N], error) {
	var (
		page         Page[N]
		haveNS       bool
		haveTitle    bool
		haveRevision bool
	)
	for {
		t, err := p.d.Token()
		if err != nil {
			return nil, err
		}
		switch t := t.(type) {
		case xml.EndElement:
			if !haveNS || !haveTitle || !haveRevision {
				return nil, &FormatError{Offset: p.d.InputOffset()}
			}
			return &page, nil
		case xml.StartElement:
			if t.Name.Space != ExportNamespace {
				if err := p.skip(); err != nil {
					return nil, err
				}
				continue
			}
			switch t.Name.Local {
			case "ns":
				s, err := p.readText(haveNS)
				if err != nil {
					return nil, err
				}
				raw, perr := strconv.ParseInt(s, 10, 32)
				if perr != nil {
					return nil, &FormatError{Offset: p.d.InputOffset()}
				}
				v, ok := p.resolve(RawNamespace(raw))
				if !ok {
					return nil, &NamespaceError{
						ID:     RawNamespace(raw),
						Offset: p.d.InputOffset(),
					}
				}
				page.Namespace, haveNS = v, true
			case "title":
				s, err := p.readText(haveTitle)
				if err != nil {
					return nil, err
				}
				page.Title, haveTitle = s, true
			case "redirect":
				target, ok := attrValue(t, "title")
				if !ok {
					return nil, &FormatError{Offset: p.d.InputOffset()}
				}
				page.RedirectTitle = &target
				if err := p.skip(); err != nil {
					return nil, err
				}
			case "revision":
				if haveRevision {
					return nil, &UnsupportedError{Offset: p.d.InputOffset()}
				}
				if err := p.readRevision(&page); err != nil {
					return nil, err
				}
				haveRevision = true
			default:
				if err := p.skip(); err != nil {
					return nil, err
				}
			}
		}
	}
}

// readRevision collects format, model and text from the revision element
// just opened. text is mandatory; the others stay nil when the schema
// version behind the dump predates them.
func (p *Parser[N]) readRevision(page *Page[N]) error {
	haveText := false
	for {
		t, err := p.d.Token()
		if err != nil {
			return err
		}
		switch t := t.(type) {
		case xml.EndElement:
			if !haveText {
				return &FormatError{Offset: p.d.InputOffset()}
			}
			return nil
		case xml.StartElement:
			if t.Name.Space != ExportNamespace {
				if err := p.skip(); err != nil {
					return err
				}
				continue
			}
			switch t.Name.Local {
			case "format":
				s, err := p.readText(page.Format != nil)
				if err != nil {
					return err
				}
				page.Format = &s
			case "model":
				s, err := p.readText(page.Model != nil)
				if err != nil {
					return err
				}
				page.Model = &s
			case "text":
				s, err := p.readText(haveText)
				if err != nil {
					return err
				}
				page.Text, haveText = s, true
			default:
				if err := p.skip(); err != nil {
					return err
				}
			}
		}
	}
}

// readText reads the scalar content of the element just opened: either
// character data up to the close tag, or an immediate close tag for an
// empty value. Child elements inside a scalar field are malformed.
// already reports whether the field was seen before on this record; a
// second occurrence is malformed rather than silently overwritten.
func (p *Parser[N]) readText(already bool) (string, error) {
	if already {
		return "", &FormatError{Offset: p.d.InputOffset()}
	}
	var buf []byte
	for {
		t, err := p.d.Token()
		if err != nil {
			return "", err
		}
		switch t := t.(type) {
		case xml.CharData:
			// The decoder may hand contiguous text over as several
			// tokens, e.g. around CDATA sections.
			buf = append(buf, t...)
		case xml.EndElement:
			return string(buf), nil
		default:
			return "", &FormatError{Offset: p.d.InputOffset()}
		}
	}
}

// skip consumes the element just opened and everything inside it. An
// explicit depth counter instead of recursion keeps arbitrarily deep
// subtrees off the call stack.
func (p *Parser[N]) skip() error {
	depth := 0
	for {
		t, err := p.d.Token()
		if err != nil {
			return err
		}
		switch t.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				return nil
			}
			depth--
		}
	}
}

func known(name xml.Name, local string) bool {
	return name.Space == ExportNamespace && name.Local == local
}

func attrValue(e xml.StartElement, local string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
