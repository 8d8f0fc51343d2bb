package statemachine

import "github.com/sirupsen/logrus"

// log is the package-level diagnostic logger, distinct from the
// send_info/negotiation_failed callback channel (spec §4.6): that channel
// is the protocol-level signal a host is contractually required to
// observe, this is for operators. SetLogger lets a host swap in its own
// configured entry (fields, output, level) without the state machine
// caring how logging is wired up.
var log = logrus.WithField("component", "zrtp")

// SetLogger replaces the package-level logger.
func SetLogger(entry *logrus.Entry) {
	if entry != nil {
		log = entry
	}
}
