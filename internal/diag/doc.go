// Package diag collects and orders diagnostics produced by the lexer and
// the compiler. Diagnostics are plain values; rendering lives in diagfmt.
package diag
