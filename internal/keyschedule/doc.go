// Package keyschedule derives the ZRTP key material a session needs once
// the DH exchange (or Multi/PreShared fast path) completes: total_hash,
// the s0 master secret, per-direction SRTP keys/salts, the Confirm
// encryption/MAC keys, the SAS hash and its rendered form, and the next
// rs1 value to persist in the ZID cache (spec §3, §4.4).
//
// Every primitive here is consumed through interfaces.Hash/MAC — this
// package never picks a concrete algorithm, the algorithm registry does.
package keyschedule
