// Package textutil turns human-facing track labels into safe file names.
package textutil
