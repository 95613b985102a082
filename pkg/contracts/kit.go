// Package contracts embeds the ABI of the KIT DEX contract.
package contracts

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const kitABIJSON = `[
  {
    "name": "swap",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "fromToken", "type": "address"},
      {"name": "toToken", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": []
  },
  {
    "name": "addLiquidity",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "tokenA", "type": "address"},
      {"name": "tokenB", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": []
  },
  {
    "name": "removeLiquidity",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "tokenA", "type": "address"},
      {"name": "tokenB", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": []
  },
  {
    "name": "createPool",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "tokenA", "type": "address"},
      {"name": "tokenB", "type": "address"}
    ],
    "outputs": []
  },
  {
    "name": "transfer",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "to", "type": "address"},
      {"name": "amount", "type": "uint256"}
    ],
    "outputs": [{"name": "", "type": "bool"}]
  },
  {
    "name": "earnYield",
    "type": "function",
    "stateMutability": "payable",
    "inputs": [
      {"name": "poolId", "type": "uint256"}
    ],
    "outputs": []
  }
]`

// KitABI parses the embedded DEX contract ABI.
func KitABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(kitABIJSON))
}
