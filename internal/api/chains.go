package api

import "strings"

const (
	DefaultChain = "VRSCTEST"
	DefaultEvent = "address.received"
)

var chainIDs = map[string]string{
	"VRSCTEST": "iJhCezBExJHvtyH3fGhNnt2NhU4Ztkf2yq",
	"Verus":    "i5w5MuNik5NtLcYmNzcvaoixooEebB6MGV",
}

// ResolveChainID maps a known chain name to its ID. Anything else is
// assumed to already be an ID.
func ResolveChainID(nameOrID string) string {
	nameOrID = strings.TrimSpace(nameOrID)

	for name, id := range chainIDs {
		if strings.EqualFold(name, nameOrID) {
			return id
		}
	}

	return nameOrID
}

// ChainName returns the display name for a chain ID, or its first eight
// characters when unknown.
func ChainName(id string) string {
	for name, known := range chainIDs {
		if known == id {
			return name
		}
	}

	if len(id) > 8 {
		return id[:8]
	}

	return id
}
