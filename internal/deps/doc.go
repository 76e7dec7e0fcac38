// Package deps checks that the external executables and helper files the
// export shells out to are present.
package deps
