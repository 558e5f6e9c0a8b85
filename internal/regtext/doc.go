// Package regtext reads and writes the regedit .reg text format.
//
// Parse turns a .reg file into a list of Ops, Apply performs them against a
// registry.Store, and Export writes a key tree back out. Strings and DWORDs
// use their readable forms; expandable strings, multi-strings and binary
// data are written as hex(2):, hex(7): and hex: byte lists.
package regtext
