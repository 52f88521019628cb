package mwdump

import "strconv"

// RawNamespace is the namespace id of a page exactly as it appears in
// the dump, before any caller-specific interpretation. The page table
// behind the export holds a signed integer; the two virtual namespaces
// are negative.
type RawNamespace = int32

// A Page is one entry of the dump together with its single retained
// revision.
//
// Format and Model only exist in some versions of the export schema, so
// they are nil on dumps that predate them, never empty strings. For
// ordinary articles they are "text/x-wiki" and "wikitext".
// RedirectTitle is nil unless the page is a redirect, in which case it
// holds the target named by the redirect element's title attribute.
type Page[N any] struct {
	Namespace     N
	Title         string
	RedirectTitle *string
	Format        *string
	Model         *string
	Text          string
}

// A NamespaceFunc converts a raw namespace id into the caller's own
// namespace representation. Returning false rejects the id, which
// surfaces as a NamespaceError from the parser.
type NamespaceFunc[N any] func(RawNamespace) (N, bool)

// A NamespaceMap derives a NamespaceFunc from a plain mapping of raw
// ids. Any comparable type works as the target, so the converted values
// can go straight into further maps and comparisons.
type NamespaceMap[N comparable] map[RawNamespace]N

// Func gets the conversion backed by the map.
func (m NamespaceMap[N]) Func() NamespaceFunc[N] {
	return func(id RawNamespace) (N, bool) {
		v, ok := m[id]
		return v, ok
	}
}

// A Namespace names the sixteen namespaces present in every MediaWiki
// installation. Wikis define more beyond these; supply your own type
// and NamespaceFunc to model them.
type Namespace int32

const (
	Main Namespace = iota
	Talk
	User
	UserTalk
	Project
	ProjectTalk
	File
	FileTalk
	MediaWiki
	MediaWikiTalk
	Template
	TemplateTalk
	Help
	HelpTalk
	Category
	CategoryTalk
)

var namespaceNames = [...]string{
	"Main", "Talk", "User", "UserTalk", "Project", "ProjectTalk",
	"File", "FileTalk", "MediaWiki", "MediaWikiTalk", "Template",
	"TemplateTalk", "Help", "HelpTalk", "Category", "CategoryTalk",
}

func (n Namespace) String() string {
	if n < 0 || int(n) >= len(namespaceNames) {
		return "Namespace(" + strconv.Itoa(int(n)) + ")"
	}
	return namespaceNames[n]
}

// StandardNamespaces maps the raw ids every installation defines to
// their Namespace values. Pass StandardNamespaces.Func() to
// NewParserWithNamespace to reject pages from any namespace beyond the
// standard sixteen.
var StandardNamespaces = NamespaceMap[Namespace]{}

func init() {
	for n := Main; n <= CategoryTalk; n++ {
		StandardNamespaces[RawNamespace(n)] = n
	}
}
