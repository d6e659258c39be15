// Package curvedline generates mosaics from a single square tile. The tile is
// rotated and mirrored into its eight variants, which are placed on an 8x8
// grid either with the original fixed layout or with a random layout.
//
// An Engine owns the variants, the random source and the current mosaic. The
// mosaic can be exported in several image formats or scaled to fit a window.
//
// It ships with an executable program that generates mosaics from the command
// line, an interactive shell, a terminal menu, a window viewer and a web
// backend.
package curvedline
