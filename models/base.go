package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ensureID assigns a fresh UUID when the row has none yet.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
