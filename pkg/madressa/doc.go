// Package madressa manages enrollment applications for the madressa
// program, the source of grade groupings in commitment reporting.
package madressa
