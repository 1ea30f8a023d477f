// Package engine runs reconcile passes over a single authoritative tree
// and turns each pass into a wire frame: reconcile, mirror apply,
// sequence, encode, retain, fan out.
//
// One Engine owns one tree. Mount installs the initial tree at sequence
// zero; each Render reconciles against the next tree, advances the
// sequence if anything changed, and delivers the encoded patch frame to
// every subscriber. Recent frames are retained in a ring so consumers
// that fall behind can resync by sequence number; an optional archive
// store extends replay past the ring.
package engine
