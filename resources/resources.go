package resources

import "embed"

//go:embed migrations i18n terms
var FS embed.FS
