// Package statemachine drives one ZRTP endpoint's negotiation from Hello
// through SecureState (spec §4.5): message dispatch, role/contention
// resolution, DH-mode and Multi/PreShared-mode key agreement, GoClear, and
// PBX SASrelay. It composes internal/wire for the byte format,
// internal/algo for negotiation, internal/keyschedule for key derivation,
// and internal/cache for retained secrets, driving all of them purely
// through the interfaces.Cache/interfaces.Callback capability contracts.
package statemachine
