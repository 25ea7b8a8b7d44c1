// Package template defines the engine contract HTML renderers draw panels
// with. The pongo2 implementation lives in the gotemplate subpackage.
package template
