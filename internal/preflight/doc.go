// Package preflight provides readiness checks for the game inputs, the
// workspace, and the external tools the export depends on.
//
// These checks run in two contexts:
//   - The export runner calls RunAll before touching the workspace. Any
//     failure aborts the run so a missing tool does not surface as thousands
//     of per-file warnings.
//   - The CLI "wotr-audio check" command renders every result as a table.
package preflight
