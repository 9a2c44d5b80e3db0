// Package rtid mints the generative identity of a resource type
// declaration (spec.md §3 "Resource types are generative: a fresh opaque
// identity is minted at its declaration site"). Two textually identical
// `(resource (rep i32))` declarations at two distinct declaration sites
// must never compare equal (spec.md P5); the identity is therefore derived
// from the declaration's source region plus a per-process monotonic
// counter, the way the teacher codebase derives a stable AST-node ID from
// path+offset+kind rather than from pointer identity.
package rtid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/waclang/waccheck/internal/ir"
)

// ID is a generative resource-type identity. Two IDs are the same resource
// type iff they are equal as values.
type ID string

// Minter hands out fresh, distinct IDs; one Minter is shared by an entire
// top-level component check so that nested components still mint globally
// distinct identities.
type Minter struct {
	counter uint64
}

// NewMinter creates a Minter starting from a fresh counter.
func NewMinter() *Minter {
	return &Minter{}
}

// Mint returns a fresh identity for a resource declared at region. The
// region is folded into the hash purely for human-readable debuggability
// (two identities never collide across declaration sites solely because
// of the counter, but the region makes independent runs of the same input
// produce the same-looking IDs, which golden tests rely on).
func (m *Minter) Mint(region ir.Region) ID {
	m.counter++
	h := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", region, m.counter)))
	return ID(hex.EncodeToString(h[:])[:16])
}
