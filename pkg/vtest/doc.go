// Package vtest provides test helpers for trees, diffs and the wire
// protocol: parse a tree from JSON, render it to HTML, assert on diff
// output, and drive an engine pass by pass.
package vtest
