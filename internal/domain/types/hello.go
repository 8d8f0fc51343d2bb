package types

// ClientIDLength is the fixed width of the ZRTP client identification string.
const ClientIDLength = 16

// HashImageLength is the width of an H0..H3 hash-chain element.
const HashImageLength = 32

// HelloParameters is the parsed content of a Hello message (spec §3).
type HelloParameters struct {
	Version   string // "1.10" or "1.20"
	ClientID  [ClientIDLength]byte
	H3        [HashImageLength]byte
	ZID       ZID
	MitM      bool
	Passive   bool
	SASSign   bool
	Hashes    []AlgoTag
	Ciphers   []AlgoTag
	KeyExch   []AlgoTag
	SASTypes  []AlgoTag
	AuthTags  []AlgoTag
	MAC       [8]byte // Hello MAC slot: carried on the wire, not computed or verified by the state machine
	RawImage  []byte  // exact bytes as received, retained for deferred HMAC + total_hash
}

// ClientIDString trims trailing NUL/space padding for display.
func (h HelloParameters) ClientIDString() string {
	n := len(h.ClientID)
	for n > 0 && (h.ClientID[n-1] == 0 || h.ClientID[n-1] == ' ') {
		n--
	}
	return string(h.ClientID[:n])
}
