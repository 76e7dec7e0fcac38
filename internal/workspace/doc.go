// Package workspace owns the scratch and output directories under the work
// directory: tmp/ receives raw extractor output, bnk/ and wem/ hold the
// partitioned archive contents, wav/ holds decoded lines, and dest/ collects
// the re-encoded files that survive the run.
//
// Every stage starts from a clean directory via Reset. A flock-based lock file
// keeps two exports from sharing one workspace.
package workspace
