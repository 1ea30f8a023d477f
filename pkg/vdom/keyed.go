package vdom

// testHookKeyIndexBuilt, when set, is called every time the fallback key
// index is built. Tests use it to assert that cursor matching alone handled
// a permutation.
var testHookKeyIndexBuilt func()

// reconcileKeyed matches keyed children with two pairs of cursors converging
// from both ends of the lists, falling back to a key index only when all
// four cursor strategies miss. Old slots taken by an index match are tracked
// in a side array; the input slices are never written.
//
// The cursor strategies cover the common list edits without touching the
// index: stable prefixes and suffixes (head/head, tail/tail) and block
// reorders such as reversals and rotations (head->tail, tail->head). Only
// arbitrary shuffles pay for the map.
func reconcileKeyed(parent *VNode, oldCh, newCh []*VNode, patches *[]Patch) {
	oldStart, oldEnd := 0, len(oldCh)-1
	newStart, newEnd := 0, len(newCh)-1
	consumed := make([]bool, len(oldCh))
	var index map[string]int

	for oldStart <= oldEnd && newStart <= newEnd {
		switch {
		case consumed[oldStart]:
			// Slot vacated by an earlier index match.
			oldStart++

		case consumed[oldEnd]:
			oldEnd--

		case sameKey(oldCh[oldStart], newCh[newStart]):
			// Stable head.
			reconcile(oldCh[oldStart], newCh[newStart], patches)
			oldStart++
			newStart++

		case sameKey(oldCh[oldEnd], newCh[newEnd]):
			// Stable tail.
			reconcile(oldCh[oldEnd], newCh[newEnd], patches)
			oldEnd--
			newEnd--

		case sameKey(oldCh[oldStart], newCh[newEnd]):
			// Head moved to the tail.
			reconcile(oldCh[oldStart], newCh[newEnd], patches)
			*patches = append(*patches, movePatch(newCh[newEnd], parent, oldStart, newEnd))
			oldStart++
			newEnd--

		case sameKey(oldCh[oldEnd], newCh[newStart]):
			// Tail moved to the head.
			reconcile(oldCh[oldEnd], newCh[newStart], patches)
			*patches = append(*patches, movePatch(newCh[newStart], parent, oldEnd, newStart))
			oldEnd--
			newStart++

		default:
			// Arbitrary reorder: find the new head somewhere in the old
			// window, or accept it as fresh.
			if index == nil {
				index = buildKeyIndex(oldCh, oldStart, oldEnd)
			}
			from := -1
			if key := getKey(newCh[newStart]); key != "" {
				if p, ok := index[key]; ok && p >= oldStart && p <= oldEnd && !consumed[p] {
					from = p
				}
			}
			if from >= 0 {
				reconcile(oldCh[from], newCh[newStart], patches)
				*patches = append(*patches, movePatch(newCh[newStart], parent, from, newStart))
				consumed[from] = true
			} else {
				*patches = append(*patches, createPatch(newCh[newStart], parent, newStart))
			}
			newStart++
		}
	}

	// Anything left on the new side is fresh; anything left unconsumed on
	// the old side is gone.
	for i := newStart; i <= newEnd; i++ {
		*patches = append(*patches, createPatch(newCh[i], parent, i))
	}
	for i := oldStart; i <= oldEnd; i++ {
		if !consumed[i] {
			*patches = append(*patches, deletePatch(oldCh[i], i))
		}
	}
}

// sameKey reports whether both nodes carry the same non-empty identity key.
// Unkeyed nodes never match a cursor strategy; inside a keyed list they
// churn rather than reorder.
func sameKey(a, b *VNode) bool {
	ka := getKey(a)
	return ka != "" && ka == getKey(b)
}

// buildKeyIndex maps identity key to position for the keyed children in
// children[lo..hi]. Text and unkeyed entries are skipped. On duplicate keys
// the first occurrence wins; later duplicates fail the consumed check at
// lookup and degrade to churn.
func buildKeyIndex(children []*VNode, lo, hi int) map[string]int {
	if testHookKeyIndexBuilt != nil {
		testHookKeyIndexBuilt()
	}
	index := make(map[string]int, hi-lo+1)
	for i := lo; i <= hi; i++ {
		key := getKey(children[i])
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}
