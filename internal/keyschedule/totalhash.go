package keyschedule

import (
	"zrtp/internal/domain/interfaces"
	domaintypes "zrtp/internal/domain/types"
)

// TotalHash computes total_hash = H(Hello_Responder || Commit || DHPart1 ||
// DHPart2) over the raw wire images retained by the negotiation state
// (spec §4.4). It is the value both sides bind their key schedule to, so
// any tampering with an earlier message in the transcript changes it.
func TotalHash(h interfaces.Hash, n domaintypes.NegotiationState) []byte {
	return h.Sum(n.HelloResponderImage, n.CommitImage, n.DHPart1Image, n.DHPart2Image)
}

// Context computes KDF_Context = ZIDi || ZIDr || total_hash (spec §4.4).
func Context(zidi, zidr domaintypes.ZID, totalHash []byte) []byte {
	out := make([]byte, 0, domaintypes.ZIDLength*2+len(totalHash))
	out = append(out, zidi.Slice()...)
	out = append(out, zidr.Slice()...)
	out = append(out, totalHash...)
	return out
}
