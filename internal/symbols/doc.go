// Package symbols maps link targets to the symbols defined by the object
// files linked into them.
package symbols
