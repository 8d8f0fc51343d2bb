package types

// HashChain holds the four pre-image-chain hashes used for delayed
// authentication (spec §3): H3 (sent in Hello) down to H0 (sent in
// Confirm1/Confirm2), with the invariant Hn = SHA-256(H(n-1)).
type HashChain struct {
	H0, H1, H2, H3 [HashImageLength]byte
}

// Reveal returns the hash chain element carried by the message that
// authenticates the previous one, keyed by how many messages have
// elapsed since Hello (0=Hello carries H3, 1=Commit carries H2, ...).
func (c HashChain) Reveal(step int) [HashImageLength]byte {
	switch step {
	case 0:
		return c.H3
	case 1:
		return c.H2
	case 2:
		return c.H1
	default:
		return c.H0
	}
}
