// Package mwdump extracts page records from MediaWiki XML exports.
//
// The dumps are available from the wikimedia group here:
//    http://dumps.wikimedia.org/
//
// Only exports carrying a single revision per page are understood,
// which is what Special:Export produces with "current revision only"
// and what the -pages-articles dumps contain. Pages are pulled one at
// a time, so arbitrarily large dumps can be walked in one pass without
// holding more than a page in memory. The text of a page is handed out
// opaque; nothing here interprets wiki markup.
//
// See the example programs under tools/ for an idea of how I've made
// use of these things.
package mwdump
