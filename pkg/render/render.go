// Package render provides output renderers for funnel's visualization patterns.
package render

import "github.com/dkoosis/funnel/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}
