package web

import (
	"embed"
	"io/fs"
)

//go:embed *.html
var pages embed.FS

// FS holds the static pages served in development.
var FS fs.FS = pages
