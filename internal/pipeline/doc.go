// Package pipeline sequences the acquire → transcribe → translate →
// post-process run. The filesystem is the only state carrier between
// stages: each stage trusts a file check at the point of use, never an
// in-memory snapshot.
package pipeline
