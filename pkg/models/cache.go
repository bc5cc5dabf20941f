package models

import "time"

// CacheType selects which generated-content cache a call operates on.
type CacheType string

const (
	CacheTypeAdvice   CacheType = "advice"
	CacheTypeEvidence CacheType = "evidence"
)

// ValidCacheTypes contains all valid cache types.
var ValidCacheTypes = []CacheType{CacheTypeAdvice, CacheTypeEvidence}

// IsValidCacheType checks if the given cache type is valid.
func IsValidCacheType(t CacheType) bool {
	for _, c := range ValidCacheTypes {
		if c == t {
			return true
		}
	}
	return false
}

// Supported content languages.
const (
	LanguageKorean  = "ko"
	LanguageEnglish = "en"
)

// Languages contains all supported content languages.
var Languages = []string{LanguageKorean, LanguageEnglish}

// CacheEntry is one immutable piece of generated text, keyed by
// (version, item_id, language). Regeneration writes a new version rather
// than mutating existing rows.
type CacheEntry struct {
	Version   string    `json:"version"`
	ItemID    string    `json:"item_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheVersionInfo summarizes one generation batch for listings.
type CacheVersionInfo struct {
	Version   string    `json:"version"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// ActiveCacheVersion is the pointer controlling which version of a cache
// is served by default for a language.
type ActiveCacheVersion struct {
	CacheType CacheType `json:"cache_type"`
	Language  string    `json:"language"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}
