// Package deps reports whether the external binaries csub shells out to are
// installed, and which versions were found.
package deps
