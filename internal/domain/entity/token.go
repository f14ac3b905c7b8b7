package entity

const (
	UnknownTokenName   = "Unknown Token"
	UnknownTokenSymbol = "UNKNOWN"
	DefaultDecimals    = 18
)

// TokenMetadata describes a token. Absent fields are nil; a token is only
// usable once name, symbol and decimals are all present.
type TokenMetadata struct {
	Name     *string `json:"name"`
	Symbol   *string `json:"symbol"`
	Decimals *uint8  `json:"decimals"`
	Logo     *string `json:"logo"`
}

// IsValid reports whether name, symbol and decimals are all known.
// Decimals of 0 is valid.
func (m TokenMetadata) IsValid() bool {
	return m.Name != nil && *m.Name != "" &&
		m.Symbol != nil && *m.Symbol != "" &&
		m.Decimals != nil
}

// FallbackMetadata is substituted when the metadata lookup itself fails.
func FallbackMetadata() TokenMetadata {
	name, symbol := UnknownTokenName, UnknownTokenSymbol
	decimals := uint8(DefaultDecimals)
	return TokenMetadata{Name: &name, Symbol: &symbol, Decimals: &decimals}
}

// MetadataResult pairs resolved metadata with how it was obtained.
type MetadataResult struct {
	Metadata TokenMetadata
	Outcome  StageOutcome
}
