// Package dom holds the document-tree helpers shared by the theme registry
// and the transformation pipeline.
//
// Trees are golang.org/x/net/html nodes. Selection and class manipulation go
// through goquery; inline style attributes are parsed with douceur into an
// ordered declaration list so that rewriting a property keeps its position
// and never duplicates it.
package dom
