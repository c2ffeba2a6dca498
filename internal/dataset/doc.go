// Package dataset produces and stores item sequences for the packers. It
// generates the average, best and worst case inputs and round-trips them
// through a plain text format holding one integer per line.
package dataset
