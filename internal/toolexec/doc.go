// Package toolexec runs the external executables the export pipeline depends
// on (archive extractor, stream decoder, re-encoder).
//
// Runner is the narrow seam between pipeline logic and real processes: the
// default ProcessRunner blocks until the child exits and streams its output
// through a line callback, while tests substitute stub runners that fabricate
// the files a tool would have written. Invoke layers the pipeline's failure
// policy on top: a non-zero exit is logged and reported as false, never raised.
package toolexec
