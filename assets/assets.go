// Package assets embeds the default controller reference image.
package assets

import _ "embed"

// Controller is a 1200×1200 PNG laid out in the reference coordinate space.
//
//go:embed controller.png
var Controller []byte
