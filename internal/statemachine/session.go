package statemachine

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"zrtp/internal/algo"
	"zrtp/internal/domain/interfaces"
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/wire"
)

// Config carries the local, static parameters a Session is built from.
type Config struct {
	ClientID string
	Version  string
	SSRC     uint32
	Registry algo.Registry

	// Passive marks an endpoint that never sends Commit (spec §4.5). A
	// Passive endpoint does not send Hello from Start either, so if both
	// endpoints are Passive neither sends anything and both stay in
	// Initial; no failure is reported.
	Passive bool

	// MultiStream, when set, makes this Session a secondary media leg of
	// an existing ZRTP association: it skips the DH exchange entirely and
	// derives s0 from MasterZRTPSess (spec §4.4's MultiStream note).
	MultiStream    bool
	MasterZRTPSess []byte

	// PreShared, when set, makes this Session negotiate the Prsh fast
	// path: no DH exchange, s0 keyed off the peer's cached rs1 instead of
	// ZRTPSess (spec §1, RFC 6189 §4.4).
	PreShared bool

	// SASSignSupport enables the optional sas-sign-support option (spec
	// §6): Confirm carries a signature over the SAS hash produced by
	// Callback.SignSAS, and the peer's Confirm signature is checked via
	// Callback.CheckSASSignature.
	SASSignSupport bool

	// ParanoidMode rejects a negotiation the moment any algorithm family
	// falls back to algo.Mandatory instead of an entry found in both
	// Registry and the peer's Hello (spec §4.2's mandatory fallback, hardened per §6's paranoid-mode
	// option): a peer that shares no preferred algorithm is treated as
	// incompatible rather than silently downgraded.
	ParanoidMode bool

	// DisclosureFlag sets the disclosure bit this endpoint sends in every
	// outbound Confirm (spec §6): it tells the peer that this endpoint's
	// operator may be legally required to disclose call content, so the
	// peer's client can warn its own user.
	DisclosureFlag bool
}

// Session drives one ZRTP endpoint through the spec §4.5 state machine.
// It is not safe for concurrent use from more than one goroutine at a
// time except via HandlePacket/HandleTimerExpiry/Start, which all take
// the internal lock.
type Session struct {
	mu sync.Mutex

	cfg      Config
	cache    interfaces.Cache
	callback interfaces.Callback

	state State

	seq uint16

	localZID domaintypes.ZID
	peerZID  domaintypes.ZID

	localChain domaintypes.HashChain
	localHello domaintypes.HelloParameters
	peerHello  domaintypes.HelloParameters

	localHelloRaw []byte
	peerHelloRaw  []byte

	neg   domaintypes.NegotiationState
	suite algo.Suite

	localNonce [16]byte

	// localCommit/localCommitRaw is the Commit this endpoint proposed as
	// Initiator; preparedDHPart2 is the DHPart2 body precomputed at the
	// same time so hvi can commit to it before it is ever sent (spec
	// §4.5). Contention may discard both if the peer's hvi/nonce wins.
	localCommit     domaintypes.CommitMessage
	localCommitRaw  []byte
	preparedDHPart2 domaintypes.DHPartMessage

	peerCommit    domaintypes.CommitMessage
	peerCommitRaw []byte

	// peerDHPart1/peerDHPart2 retain the parsed DHPart message received
	// from the peer so its deferred MAC (keyed by the peer's own H0,
	// revealed only once Confirm arrives) can be checked in openConfirm.
	peerDHPart1 domaintypes.DHPartMessage
	peerDHPart2 domaintypes.DHPartMessage

	secrets domaintypes.SessionSecrets

	timer          *retransmitTimer
	lastSentPacket []byte

	// clearHMACKey authenticates GoClear/ClearACK (spec §4.5). It is
	// derived once from the Confirm-authentication keys just before
	// SessionSecrets.Wipe runs, since GoClear can arrive at any point
	// during SecureState, long after the key schedule's other output is
	// gone.
	clearHMACKey []byte

	// zrtpSessKept survives SessionSecrets.Wipe so a MultiStream child
	// Session can be built from it (spec §4.4's MultiStream note).
	zrtpSessKept []byte
}

// Role returns the resolved Initiator/Responder role, or
// RoleUndetermined before Commit settles it.
func (s *Session) Role() domaintypes.Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.neg.Role
}

// SASValue returns the rendered SAS string once the key schedule has run;
// empty before that. Unlike the rest of SessionSecrets this is never
// wiped, since the host may need it displayed long into SecureState.
func (s *Session) SASValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secrets.SASValue
}

// MasterZRTPSess returns the key a MultiStream child Session's
// Config.MasterZRTPSess should be set to. Valid only once this Session
// has reached SecureState.
func (s *Session) MasterZRTPSess() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.zrtpSessKept
}

// New constructs a Session in the Initial state. Call Open on cache
// beforehand; Session only calls Get/Put/OwnZID on it.
func New(cfg Config, cache interfaces.Cache, callback interfaces.Callback) *Session {
	switch {
	case cfg.MultiStream:
		// A MultiStream leg only ever negotiates Mult; forcing the local
		// preference list keeps algo.Select's ordinary intersection logic
		// in play instead of special-casing this mode there.
		cfg.Registry.KeyExch = []domaintypes.AlgoTag{domaintypes.KeyExchangeMult}
	case cfg.PreShared:
		cfg.Registry.KeyExch = []domaintypes.AlgoTag{domaintypes.KeyExchangePrsh}
	}
	s := &Session{
		cfg:      cfg,
		cache:    cache,
		callback: callback,
		state:    Initial,
		localZID: cache.OwnZID(),
	}
	if _, err := rand.Read(s.localChain.H0[:]); err == nil {
		s.deriveHashChain()
	}
	if _, err := rand.Read(s.localNonce[:]); err != nil {
		// crypto/rand failing is unrecoverable; the zero nonce is at least
		// deterministic rather than silently reusing a stale one.
	}
	return s
}

// deriveHashChain computes H1=H(H0), H2=H(H1), H3=H(H2) (spec §3).
func (s *Session) deriveHashChain() {
	s.localChain.H1 = sha256.Sum256(s.localChain.H0[:])
	s.localChain.H2 = sha256.Sum256(s.localChain.H1[:])
	s.localChain.H3 = sha256.Sum256(s.localChain.H2[:])
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) nextSeq() uint16 {
	s.seq++
	return s.seq
}

// send encodes and transmits a message body via the Callback Surface,
// remembering it as the last-sent packet for T1/T2 retransmission.
func (s *Session) send(msgType domaintypes.MessageType, body []byte) []byte {
	raw := wire.EncodePacket(s.nextSeq(), s.cfg.SSRC, msgType, body)
	s.lastSentPacket = raw
	s.callback.SendData(raw)
	return raw
}

// resend retransmits the last packet sent, used by T1/T2 timer-expiry
// events (spec §4.5, §5).
func (s *Session) resend() {
	if s.lastSentPacket != nil {
		s.callback.SendData(s.lastSentPacket)
	}
}

// Start sends Hello and begins T1-governed retransmission (spec §4.5
// Initial state).
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Passive {
		return nil // a passive endpoint waits for the peer's Hello, never initiates
	}

	s.localHello = s.buildHello()
	body := wire.EncodeHello(s.localHello)
	raw := s.send(domaintypes.MsgHello, body)
	s.localHelloRaw = raw[:len(raw)-wire.CRCBytes]

	s.timer = newT1Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
	s.state = Detect
	log.WithField("ssrc", s.cfg.SSRC).Debug("zrtp: hello sent, entering Detect")
	return nil
}

func (s *Session) buildHello() domaintypes.HelloParameters {
	var h domaintypes.HelloParameters
	h.Version = s.cfg.Version
	copy(h.ClientID[:], s.cfg.ClientID)
	h.H3 = s.localChain.H3
	h.ZID = s.localZID
	h.SASSign = false
	h.Passive = s.cfg.Passive
	h.Hashes = s.cfg.Registry.Hashes
	h.Ciphers = s.cfg.Registry.Ciphers
	h.KeyExch = s.cfg.Registry.KeyExch
	h.SASTypes = s.cfg.Registry.SASTypes
	h.AuthTags = s.cfg.Registry.AuthTags
	return h
}

// HandleTimerExpiry processes an elapsed T1/T2 timer, retransmitting the
// last packet or failing the session once retries are exhausted (spec
// §4.5, §5).
func (s *Session) HandleTimerExpiry() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return
	}
	ms, ok := s.timer.next()
	if !ok {
		s.callback.NegotiationFailed(domaintypes.SeveritySevere, int(domaintypes.SevereTooMuchRetries))
		s.state = Terminated
		return
	}
	s.resend()
	s.callback.ActivateTimer(ms)
}

// HandlePacket validates and dispatches one inbound packet (spec §4.5).
// Decode errors (bad magic/length/alignment/CRC) are dropped silently per
// spec §8; the caller sees nil in that case, matching "malformed packets
// never reach the state machine as events."
func (s *Session) HandlePacket(raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, err := wire.Read(raw)
	if err != nil {
		log.WithError(err).Debug("zrtp: dropping malformed packet")
		return nil
	}

	switch msg.Header.Type {
	case domaintypes.MsgHello:
		return s.onHello(msg)
	case domaintypes.MsgHelloACK:
		return s.onHelloACK()
	case domaintypes.MsgCommit:
		return s.onCommit(msg)
	case domaintypes.MsgDHPart1:
		return s.onDHPart1(msg)
	case domaintypes.MsgDHPart2:
		return s.onDHPart2(msg)
	case domaintypes.MsgConfirm1:
		return s.onConfirm1(msg)
	case domaintypes.MsgConfirm2:
		return s.onConfirm2(msg)
	case domaintypes.MsgConf2ACK:
		return s.onConf2Ack()
	case domaintypes.MsgError:
		return s.onError(msg)
	case domaintypes.MsgErrorACK:
		return s.onErrorAck()
	case domaintypes.MsgGoClear:
		return s.onGoClear(msg)
	case domaintypes.MsgClearACK:
		return s.onClearAck()
	case domaintypes.MsgSASrelay:
		return s.onSASrelay(msg)
	case domaintypes.MsgRelayACK:
		return s.onRelayAck()
	default:
		return fmt.Errorf("statemachine: unhandled message type %q", msg.Header.Type.String())
	}
}

func (s *Session) cancelTimer() {
	if s.timer != nil {
		s.callback.CancelTimer()
		s.timer = nil
	}
}

func (s *Session) fail(severity domaintypes.Severity, code int, subcode domaintypes.ErrorSubcode) {
	log.WithFields(logrus.Fields{"state": s.state, "subcode": subcode}).Warn("zrtp: session failing")
	s.sendErrorLocked(subcode)
	s.callback.NegotiationFailed(severity, code)
	s.state = Terminated
}
