package types

// RSLength is the byte width of a retained secret or MitM/PBX key.
const RSLength = 32

// ZIDRecordFlags mirrors the on-disk bit layout from spec §6.
type ZIDRecordFlags uint32

const (
	FlagRS1Valid          ZIDRecordFlags = 1
	FlagRS2Valid          ZIDRecordFlags = 2
	FlagMITMKeyAvailable  ZIDRecordFlags = 4
	FlagOwnZIDRecord      ZIDRecordFlags = 8
	FlagSASVerified       ZIDRecordFlags = 0x10
)

// ZIDRecord is the persistent per-peer cache entry (spec §3, §4.3).
type ZIDRecord struct {
	PeerZID ZID

	RS1         [RSLength]byte
	RS1ValidThru int64 // -1 never expires, 0 already expired, else epoch seconds
	RS2         [RSLength]byte
	RS2ValidThru int64

	MiTMKey [RSLength]byte

	Flags ZIDRecordFlags

	CreatedUTC     int64
	LastUsedUTC    int64
	SecureSinceUTC int64
}

// IsOwn reports whether this is the endpoint's own-ZID record.
func (r *ZIDRecord) IsOwn() bool { return r.Flags == FlagOwnZIDRecord }

// RS1Valid mirrors the original ZIDRecordFile::isRs1NotExpired three-way check.
func (r *ZIDRecord) RS1Valid() bool {
	if r.Flags&FlagRS1Valid == 0 {
		return false
	}
	return validAt(r.RS1ValidThru)
}

// RS2Valid mirrors isRs2NotExpired.
func (r *ZIDRecord) RS2Valid() bool {
	if r.Flags&FlagRS2Valid == 0 {
		return false
	}
	return validAt(r.RS2ValidThru)
}

func validAt(validThru int64) bool {
	if validThru == -1 {
		return true
	}
	if validThru == 0 {
		return false
	}
	return nowFunc() <= validThru
}

// nowFunc is overridable by tests that need to advance the clock (spec §8,
// cache-expiry scenario) without sleeping.
var nowFunc = defaultNow

// SetNewRS1 shifts the current RS1 into the RS2 slot (copying its validity
// interval and clearing RS2Valid first per the reference ZIDRecordFile, then
// re-deriving RS2Valid from whatever RS1 already carried), installs data as
// the new RS1, and computes its validity deadline from expireSeconds:
// -1 never expires, <=0 already expired, otherwise now+expireSeconds.
func (r *ZIDRecord) SetNewRS1(data [RSLength]byte, expireSeconds int64) {
	wasRS1Valid := r.Flags&FlagRS1Valid != 0
	r.RS2 = r.RS1
	r.RS2ValidThru = r.RS1ValidThru
	r.Flags &^= FlagRS2Valid
	if wasRS1Valid {
		r.Flags |= FlagRS2Valid
	}

	r.RS1 = data
	switch {
	case expireSeconds == -1:
		r.RS1ValidThru = -1
	case expireSeconds <= 0:
		r.RS1ValidThru = 0
	default:
		r.RS1ValidThru = nowFunc() + expireSeconds
	}
	r.Flags |= FlagRS1Valid
}

// SetMiTMData installs a PBX/MitM key and marks it available.
func (r *ZIDRecord) SetMiTMData(data [RSLength]byte) {
	r.MiTMKey = data
	r.Flags |= FlagMITMKeyAvailable
}

// DefaultRSExpireSeconds is the ~30 day validity window spec §3 recommends
// for newly derived retained secrets.
const DefaultRSExpireSeconds = 30 * 24 * 60 * 60
