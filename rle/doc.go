// Package rle implements the fog-of-war-aware run-length encoding used
// to carry cell-grid snapshots and diffs inside Update frames, and the
// pattern-file format (comment lines, header line, RLE body) used to
// load starting patterns from disk.
//
// A pattern is a string of runs `[count]<char>` terminated by `!`,
// with `$` separating rows. Apart from `b`, whose runs at the end of a
// row Encode leaves out, and `"`, which Decode skips without writing,
// the meaning of each character (`o` alive, `A`-`W` player-owned, `?`
// fog, ...) is a property of the grid being encoded or decoded, not of
// this package; rle otherwise only understands run syntax and line
// wrapping.
package rle
