// Package template declares the engine seam page renderers execute templates
// through. Concrete engines live in subpackages.
package template
