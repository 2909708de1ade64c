package webcache

import (
	"time"
)

// Tier is one of the four independent cache partitions. Each tier has
// its own admission and eviction policy.
type Tier string

const (
	TierStatic  Tier = "static"
	TierDynamic Tier = "dynamic"
	TierAPI     Tier = "api"
	TierImage   Tier = "image"
)

// ImageTierCap is the maximum number of entries the image tier holds.
// Insertion beyond the cap evicts the oldest entries.
const ImageTierCap = 100

// DynamicMaxAge is how long a dynamic (page) entry survives before the
// periodic sweep removes it.
const DynamicMaxAge = 7 * 24 * time.Hour

// Entry is one cached response snapshot, keyed by request identity
// (method + normalized URL).
type Entry struct {
	Tier        Tier      `json:"tier"`
	Key         string    `json:"key"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	StatusCode  int       `json:"status_code"`
	StoredAt    time.Time `json:"stored_at"`
}

// Tiers lists every cache tier.
func Tiers() []Tier {
	return []Tier{TierStatic, TierDynamic, TierAPI, TierImage}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierStatic, TierDynamic, TierAPI, TierImage:
		return true
	}
	return false
}
