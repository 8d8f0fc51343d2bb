package statemachine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"zrtp/internal/algo"
	"zrtp/internal/cache"
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/wire"
)

// fakeCallback is a minimal in-memory interfaces.Callback: SendData enqueues
// onto a FIFO shared with the other endpoint's fakeCallback, so a test can
// drive a full negotiation deterministically by draining the queue rather
// than sleeping on real timers.
type fakeCallback struct {
	peer  *Session
	queue *[]queuedMsg

	infos          []int
	warnings       []int
	failures       []int
	sasValue       string
	sasVerified    bool
	srtpSecrets    []domaintypes.SRTPSecrets
	srtpOff        []domaintypes.Direction
	otherUnsupport bool
}

type queuedMsg struct {
	to   *Session
	data []byte
}

func (c *fakeCallback) SendData(data []byte) bool {
	*c.queue = append(*c.queue, queuedMsg{to: c.peer, data: append([]byte(nil), data...)})
	return true
}
func (c *fakeCallback) ActivateTimer(ms int32) int32 { return ms }
func (c *fakeCallback) CancelTimer() int32           { return 0 }
func (c *fakeCallback) SendInfo(severity domaintypes.Severity, code int) {
	if severity == domaintypes.SeverityWarning {
		c.warnings = append(c.warnings, code)
	} else {
		c.infos = append(c.infos, code)
	}
}
func (c *fakeCallback) NegotiationFailed(severity domaintypes.Severity, code int) {
	c.failures = append(c.failures, code)
}
func (c *fakeCallback) OtherPartyNotSupported() { c.otherUnsupport = true }
func (c *fakeCallback) SRTPSecretsReady(secrets domaintypes.SRTPSecrets) bool {
	c.srtpSecrets = append(c.srtpSecrets, secrets)
	return true
}
func (c *fakeCallback) SRTPSecretsOff(direction domaintypes.Direction) {
	c.srtpOff = append(c.srtpOff, direction)
}
func (c *fakeCallback) SASPresent(sas string, verified bool) {
	c.sasValue = sas
	c.sasVerified = verified
}
func (c *fakeCallback) SignSAS(sasHash []byte) []byte                            { return nil }
func (c *fakeCallback) CheckSASSignature(sasHash []byte, signature []byte) bool  { return true }
func (c *fakeCallback) AskEnrollment(info domaintypes.EnrollmentInfo)            {}
func (c *fakeCallback) InformEnrollment(info domaintypes.EnrollmentInfo)         {}

// pump drains the shared queue, delivering each packet outside of any
// Session's lock, until quiescent or an iteration cap is hit (a stuck
// protocol should fail the test, not hang it).
func pump(t *testing.T, queue *[]queuedMsg) {
	t.Helper()
	for i := 0; i < 200 && len(*queue) > 0; i++ {
		m := (*queue)[0]
		*queue = (*queue)[1:]
		_ = m.to.HandlePacket(m.data)
	}
	require.Empty(t, queue, "protocol did not converge within the iteration budget")
}

func newTestCache(t *testing.T) *cache.FileCache {
	t.Helper()
	c := cache.NewFileCache()
	require.NoError(t, c.Open(filepath.Join(t.TempDir(), "zid.json")))
	return c
}

func newPair(t *testing.T) (a, b *Session, cbA, cbB *fakeCallback, queue *[]queuedMsg) {
	t.Helper()
	queue = &[]queuedMsg{}

	cacheA := newTestCache(t)
	cacheB := newTestCache(t)

	cbA = &fakeCallback{queue: queue}
	cbB = &fakeCallback{queue: queue}

	a = New(Config{ClientID: "zrtp-endpoint/test", Version: supportedVersion, SSRC: 0x1111, Registry: algo.Default()}, cacheA, cbA)
	b = New(Config{ClientID: "zrtp-endpoint/test", Version: supportedVersion, SSRC: 0x2222, Registry: algo.Default()}, cacheB, cbB)
	cbA.peer, cbB.peer = b, a
	return a, b, cbA, cbB, queue
}

func TestFreshPairReachesSecureStateWithDH(t *testing.T) {
	a, b, cbA, cbB, queue := newPair(t)

	require.NoError(t, a.Start())
	require.NoError(t, b.Start())
	pump(t, queue)

	require.Equal(t, SecureState, a.State())
	require.Equal(t, SecureState, b.State())

	require.NotEqual(t, a.Role(), b.Role())
	require.Contains(t, []domaintypes.Role{domaintypes.RoleInitiator, domaintypes.RoleResponder}, a.Role())

	require.NotEmpty(t, a.SASValue())
	require.Equal(t, a.SASValue(), b.SASValue())

	require.Len(t, cbA.srtpSecrets, 2)
	require.Len(t, cbB.srtpSecrets, 2)

	recA, err := a.cache.Get(a.peerZID)
	require.NoError(t, err)
	require.True(t, recA.RS1Valid())

	recB, err := b.cache.Get(b.peerZID)
	require.NoError(t, err)
	require.True(t, recB.RS1Valid())

	require.NotEmpty(t, cbA.warnings)
	require.NotEmpty(t, cbB.warnings)
}

func TestReturningPairSkipsNoRSMatchWarning(t *testing.T) {
	queue := &[]queuedMsg{}
	cacheA := newTestCache(t)
	cacheB := newTestCache(t)

	run := func() (cbA, cbB *fakeCallback) {
		cbA = &fakeCallback{queue: queue}
		cbB = &fakeCallback{queue: queue}
		a := New(Config{ClientID: "zrtp-endpoint/test", Version: supportedVersion, SSRC: 0x1111, Registry: algo.Default()}, cacheA, cbA)
		b := New(Config{ClientID: "zrtp-endpoint/test", Version: supportedVersion, SSRC: 0x2222, Registry: algo.Default()}, cacheB, cbB)
		cbA.peer, cbB.peer = b, a
		require.NoError(t, a.Start())
		require.NoError(t, b.Start())
		pump(t, queue)
		require.Equal(t, SecureState, a.State())
		require.Equal(t, SecureState, b.State())
		return cbA, cbB
	}

	cbA1, cbB1 := run()
	require.NotEmpty(t, cbA1.warnings, "first contact has no cached rs1 yet")
	require.NotEmpty(t, cbB1.warnings)

	cbA2, cbB2 := run()
	require.NotContains(t, cbA2.warnings, int(domaintypes.WarningNoRSMatch), "second contact should find the rs1 the first run cached")
	require.NotContains(t, cbB2.warnings, int(domaintypes.WarningNoRSMatch))
}

func TestMultiStreamSecondLegReachesSecureState(t *testing.T) {
	a, b, _, _, queue := newPair(t)
	require.NoError(t, a.Start())
	require.NoError(t, b.Start())
	pump(t, queue)
	require.Equal(t, SecureState, a.State())
	require.Equal(t, SecureState, b.State())

	masterA := a.MasterZRTPSess()
	masterB := b.MasterZRTPSess()
	require.NotEmpty(t, masterA)
	require.Equal(t, masterA, masterB)

	queue2 := &[]queuedMsg{}
	cbA2 := &fakeCallback{queue: queue2}
	cbB2 := &fakeCallback{queue: queue2}
	msA := New(Config{
		ClientID: "zrtp-endpoint/test", Version: supportedVersion, SSRC: 0x3333,
		Registry: algo.Default(), MultiStream: true, MasterZRTPSess: masterA,
	}, a.cache, cbA2)
	msB := New(Config{
		ClientID: "zrtp-endpoint/test", Version: supportedVersion, SSRC: 0x4444,
		Registry: algo.Default(), MultiStream: true, MasterZRTPSess: masterB,
	}, b.cache, cbB2)
	cbA2.peer, cbB2.peer = msB, msA

	require.NoError(t, msA.Start())
	require.NoError(t, msB.Start())
	pump(t, queue2)

	require.Equal(t, SecureState, msA.State())
	require.Equal(t, SecureState, msB.State())
	require.Equal(t, msA.SASValue(), msB.SASValue())
	require.Nil(t, msA.neg.DHResult)
}

func TestOnHelloRejectsUnsupportedVersion(t *testing.T) {
	a, _, cbA, _, _ := newPair(t)

	other := New(Config{ClientID: "other", Version: "9.99", SSRC: 0x5555, Registry: algo.Default()}, newTestCache(t), &fakeCallback{queue: &[]queuedMsg{}})
	body := wire.EncodeHello(other.buildHello())
	raw := wire.EncodePacket(1, other.cfg.SSRC, domaintypes.MsgHello, body)

	require.NoError(t, a.HandlePacket(raw))
	require.NotEmpty(t, cbA.failures)
	require.Equal(t, Terminated, a.State())
}

func TestOnCommitRejectsH2NotChainedToHelloH3(t *testing.T) {
	a, b, _, cbB, queue := newPair(t)
	require.NoError(t, a.Start())
	require.NoError(t, b.Start())
	require.Len(t, *queue, 2) // both Hellos in flight, nothing else yet

	// deliver both Hellos so each side has recorded the other's H3
	for i := 0; i < 2; i++ {
		m := (*queue)[0]
		*queue = (*queue)[1:]
		require.NoError(t, m.to.HandlePacket(m.data))
	}
	require.Equal(t, AckSent, a.State())
	require.Equal(t, AckSent, b.State())

	commit := domaintypes.CommitMessage{
		H2:      a.localChain.H1, // wrong: not SHA256(a's real H2), so it never chains to a's Hello H3
		ZID:     a.localZID,
		Hash:    a.cfg.Registry.Hashes[0],
		Cipher:  a.cfg.Registry.Ciphers[0],
		AuthTag: a.cfg.Registry.AuthTags[0],
		KeyExch: domaintypes.KeyExchangeMult,
		SAS:     a.cfg.Registry.SASTypes[0],
		Nonce:   a.localNonce,
	}
	body := wire.EncodeCommit(commit)
	raw := wire.EncodePacket(9, a.cfg.SSRC, domaintypes.MsgCommit, body)

	require.NoError(t, b.HandlePacket(raw))
	require.NotEmpty(t, cbB.failures)
	require.Equal(t, Terminated, b.State())
}

func TestHandlePacketDropsCorruptedCRCSilently(t *testing.T) {
	a, b, _, _, queue := newPair(t)
	require.NoError(t, a.Start())
	require.Len(t, *queue, 1)

	corrupted := append([]byte(nil), (*queue)[0].data...)
	corrupted[len(corrupted)-1] ^= 0xff // flip a CRC bit

	stateBefore := b.State()
	err := b.HandlePacket(corrupted)
	require.NoError(t, err)
	require.Equal(t, stateBefore, b.State(), "a corrupted packet must never reach the dispatcher")
}

