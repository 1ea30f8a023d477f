// Package archive persists encoded patch frames beyond the engine's
// in-memory history ring.
//
// The engine keeps a short replay window in memory; an archive Store
// extends that window to whatever the backend can hold. MemoryStore
// serves tests and single-node setups, S3Store keeps one object per
// sequence in a bucket. Both honor the same contract: Range returns a
// gapless run of frames or ErrNotFound, because replaying part of a
// patch stream corrupts the consumer's tree.
package archive
