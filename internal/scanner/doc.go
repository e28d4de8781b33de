// Package scanner enumerates the monitored source folders, classifies
// discovered files by the folder they sit in, and performs the terminal
// relocation into done/ once the processor reports full delivery. It is the
// only component that mutates the process folder tree.
package scanner
