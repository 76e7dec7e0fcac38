// Package metadata loads the two lookup tables the export needs: the Wwise
// sound bank manifest (SoundbanksInfo.xml), which links events to streamed
// files and stream ids to their original short names, and the localization
// sound map (Sound.json), which links subtitle keys to event names.
//
// Both inputs are read once, before any archive is touched. Parse failures
// are fatal and carry services.ErrMalformed.
package metadata
