package types

// NegotiationState carries the algorithms and transcript pieces the state
// machine accumulates on the way to a key schedule run (spec §3).
type NegotiationState struct {
	Role Role

	SelectedHash     AlgoTag
	SelectedCipher   AlgoTag
	SelectedKeyExch  AlgoTag
	SelectedSAS      AlgoTag
	SelectedAuthTag  AlgoTag

	ZIDi ZID // initiator's ZID
	ZIDr ZID // responder's ZID

	PeerHello HelloParameters

	// Raw byte images of the messages that feed total_hash (spec §4.4),
	// retained until the key schedule consumes them.
	HelloResponderImage []byte
	CommitImage         []byte
	DHPart1Image        []byte
	DHPart2Image        []byte

	DHPublicSelf  []byte
	DHPrivateSelf []byte
	DHPublicPeer  []byte
	DHResult      []byte

	Chain     HashChain // self hash chain
	PeerH3    [HashImageLength]byte
	PeerH2    [HashImageLength]byte
	PeerH1    [HashImageLength]byte
	PeerH0    [HashImageLength]byte

	HVI [HashImageLength]byte // hash commit value, DH modes
	Nonce [16]byte             // used for role tie-break in Multi/PreShared modes
}
