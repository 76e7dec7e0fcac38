// Command wotr-audio exports the voiced dialogue of Pathfinder: Wrath of the
// Righteous from the game's Wwise packages into plain audio files.
//
// Running the binary without a subcommand performs a full export using the
// resolved configuration (see `wotr-audio config init`). The `check` command
// runs the readiness checks on their own and `lookup` queries the optional
// export index for the archive and stream a line came from.
package main
