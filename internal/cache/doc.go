// Package cache implements the ZID-keyed persistent retained-secret store
// (spec §3, §4.3, §6): a JSON-document file backend and a relational
// backend behind the shared interfaces.Cache contract, plus a
// passphrase-sealed export/import format for moving a cache between hosts.
package cache
