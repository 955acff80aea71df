// Package assets provides theme stylesheets and the preview page template.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the stylesheets of the built-in themes (default,
// elegant, github, wechat, dark) and the preview template.
//
// FilesystemLoader lets users ship stylesheets for custom themes from a
// directory, with path traversal protection and symlink resolution.
//
// AssetResolver tries the custom FilesystemLoader first, falling back to
// EmbeddedLoader if the asset is not found. A custom directory can therefore
// override a single built-in stylesheet and keep the rest.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # theme stylesheet, selectors scoped by .theme-{id}
//	└── templates/
//	    └── {name}.html          # page template (preview.html)
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
