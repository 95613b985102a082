package chain

import "strings"

// TxURL builds the block explorer link for a transaction hash.
func TxURL(explorerBase, hash string) string {
	if explorerBase == "" {
		return ""
	}
	return strings.TrimSuffix(explorerBase, "/") + "/tx/" + hash
}

// AddressURL builds the block explorer link for an address.
func AddressURL(explorerBase, address string) string {
	if explorerBase == "" {
		return ""
	}
	return strings.TrimSuffix(explorerBase, "/") + "/address/" + address
}
