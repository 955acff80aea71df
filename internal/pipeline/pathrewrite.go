package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/alnah/go-mdpublish/internal/dom"
)

// RewriteRelativePaths turns relative img[src] and a[href] paths below root
// into absolute file:// URLs resolved against sourceDir. An empty sourceDir
// is a no-op. URLs, anchors, absolute paths, and paths escaping sourceDir
// are left alone.
func RewriteRelativePaths(root *html.Node, sourceDir string) error {
	if sourceDir == "" {
		return nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return err
	}

	for _, n := range dom.Select(root).Find("img[src]").Nodes {
		rewriteAttr(n, "src", absDir)
	}
	for _, n := range dom.Select(root).Find("a[href]").Nodes {
		rewriteAttr(n, "href", absDir)
	}
	return nil
}

func rewriteAttr(n *html.Node, key, dir string) {
	val, _ := dom.Attr(n, key)
	if !isRelativePath(val) {
		return
	}
	abs := filepath.Join(dir, val)
	if !isPathUnderDir(abs, dir) {
		return
	}
	dom.SetAttr(n, key, pathToFileURL(abs))
}

func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false
	}
	return !filepath.IsAbs(path)
}

func isPathUnderDir(absPath, dir string) bool {
	cleanDir := filepath.Clean(dir)
	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(filepath.Clean(absPath)+string(filepath.Separator), cleanDir)
}

func pathToFileURL(absPath string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(absPath)}
	return u.String()
}
