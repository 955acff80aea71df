package assets

import "strings"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a theme stylesheet by name using the default embedded loader.
// The name should not include the .css extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a page template by name using the default embedded loader.
// Returns ErrTemplateNotFound if the template does not exist.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// DefaultStyleName is the stylesheet of the built-in default theme.
const DefaultStyleName = "default"

// PreviewTemplateName is the page template wrapping a rendered preview.
const PreviewTemplateName = "preview"

// StyleNameFromFile maps a theme's CSS file name ("github.css") to the
// asset name used by loaders ("github").
func StyleNameFromFile(cssFile string) string {
	return strings.TrimSuffix(cssFile, ".css")
}
