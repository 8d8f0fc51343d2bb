// Package algo holds the ordered per-family algorithm preference lists and
// the Initiator-side selection rule from spec §4.2. It knows nothing about
// the wire format or the state machine; it only intersects preference
// lists and applies the upgrade/mandatory-fallback rules.
package algo
