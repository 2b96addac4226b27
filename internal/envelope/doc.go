// Package envelope owns the persistence wire contract and parsing primitives.
//
// Ownership boundary:
// - format sniffing (legacy JSON vs binary envelope)
// - varint and tag primitives
// - field skipping and payload extraction
package envelope
