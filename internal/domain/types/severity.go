package types

// Severity classifies a message on the Callback Surface's info channel
// (spec §4.6).
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeveritySevere
	SeverityZRTPError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeveritySevere:
		return "Severe"
	case SeverityZRTPError:
		return "ZrtpError"
	default:
		return "Unknown"
	}
}

// InfoCode enumerates the Info-severity subcodes the state machine emits.
type InfoCode int

const (
	InfoHelloReceived InfoCode = iota
	InfoSecureStateOn
	InfoSecureStateOff
	InfoRSMatchFound
	InfoConf2AckSent
	InfoMultiStreamSecure
)

// WarningCode enumerates Warning-severity subcodes (advisory, spec §7).
type WarningCode int

const (
	WarningNoRSMatch WarningCode = iota
	WarningDHAESmismatch
	WarningGoClearReceived
	WarningSRTPReplayDrop
	WarningCryptoOptionsMismatch
)

// SevereCode enumerates Severe-severity subcodes: fatal locally-detected
// conditions that end the session (spec §4.5, §8).
type SevereCode int

const (
	SevereHelloHMACFailed SevereCode = iota
	SevereCommitHMACFailed
	SevereDH1HMACFailed
	SevereDH2HMACFailed
	SevereTooMuchRetries
	SevereNoTimer
	SevereInternalError
)

// ErrorSubcode is the closed, RFC 6189-defined ZRTP Error-packet subcode set
// (spec §4.5, §7). Implementations must not invent new codes.
type ErrorSubcode uint32

const (
	ErrorMalformedPacket    ErrorSubcode = 0x10
	ErrorCriticalSWError    ErrorSubcode = 0x20
	ErrorUnsuppZRTPVersion  ErrorSubcode = 0x30
	ErrorHelloCompMismatch  ErrorSubcode = 0x40
	ErrorUnsuppHashType     ErrorSubcode = 0x51
	ErrorUnsuppCipherType   ErrorSubcode = 0x52
	ErrorUnsuppPKExchange   ErrorSubcode = 0x53
	ErrorUnsuppSRTPAuthTag  ErrorSubcode = 0x54
	ErrorUnsuppSASScheme    ErrorSubcode = 0x55
	ErrorNoSharedSecret     ErrorSubcode = 0x56
	ErrorDHErrorWrongPV     ErrorSubcode = 0x61
	ErrorDHErrorWrongHVI    ErrorSubcode = 0x62
	ErrorSASuntrustedMiTM   ErrorSubcode = 0x63
	ErrorConfirmHMACWrong   ErrorSubcode = 0x70
	ErrorNonceReused        ErrorSubcode = 0x80
	ErrorEqualZIDHello      ErrorSubcode = 0x90
	ErrorGoClearNotAllowed  ErrorSubcode = 0x100
)

func (c ErrorSubcode) String() string {
	switch c {
	case ErrorMalformedPacket:
		return "MalformedPacket"
	case ErrorCriticalSWError:
		return "CriticalSWError"
	case ErrorUnsuppZRTPVersion:
		return "UnsuppZRTPVersion"
	case ErrorHelloCompMismatch:
		return "HelloCompMismatch"
	case ErrorUnsuppHashType:
		return "UnsuppHashType"
	case ErrorUnsuppCipherType:
		return "UnsuppCipherType"
	case ErrorUnsuppPKExchange:
		return "UnsuppPKExchange"
	case ErrorUnsuppSRTPAuthTag:
		return "UnsuppSRTPAuthTag"
	case ErrorUnsuppSASScheme:
		return "UnsuppSASScheme"
	case ErrorNoSharedSecret:
		return "NoSharedSecret"
	case ErrorDHErrorWrongPV:
		return "DHErrorWrongPV"
	case ErrorDHErrorWrongHVI:
		return "DHErrorWrongHVI"
	case ErrorSASuntrustedMiTM:
		return "SASuntrustedMiTM"
	case ErrorConfirmHMACWrong:
		return "ConfirmHMACWrong"
	case ErrorNonceReused:
		return "NonceReused"
	case ErrorEqualZIDHello:
		return "EqualZIDHello"
	case ErrorGoClearNotAllowed:
		return "GoClearNotAllowed"
	default:
		return "Unknown"
	}
}

// EnrollmentInfo is the InfoEnrollment payload passed to
// ask_enrollment/inform_enrollment (spec §4.6, PBX/SASrelay).
type EnrollmentInfo int

const (
	EnrollmentRequested EnrollmentInfo = iota
	EnrollmentAccepted
	EnrollmentDeclined
	EnrollmentFailed
	EnrollmentNoUserInput
)
