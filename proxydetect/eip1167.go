package proxydetect

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	eip1167Prefix = common.FromHex("0x363d3d373d3d3d363d")
	eip1167Suffix = common.FromHex("0x57fd5bf3")
)

// suffix sits 11 bytes after the implementation address ends
const eip1167SuffixOffset = 11

// ParseEip1167Bytecode extracts the implementation address from EIP-1167
// minimal proxy runtime bytecode. Vanity proxies push fewer than 20 bytes,
// so the address is left padded.
func ParseEip1167Bytecode(bytecode []byte) (common.Address, error) {
	if !bytes.HasPrefix(bytecode, eip1167Prefix) {
		return common.Address{}, fmt.Errorf("not an eip1167 bytecode")
	}

	pos := len(eip1167Prefix)
	if len(bytecode) < pos+1 {
		return common.Address{}, fmt.Errorf("not an eip1167 bytecode")
	}

	// push1 ... push20 use opcodes 0x60 ... 0x73
	addressLength := int(bytecode[pos]) - 0x5f
	if addressLength < 1 || addressLength > 20 {
		return common.Address{}, fmt.Errorf("not an eip1167 bytecode")
	}
	pos++

	addressEnd := pos + addressLength
	if len(bytecode) < addressEnd {
		return common.Address{}, fmt.Errorf("not an eip1167 bytecode")
	}
	addressBytes := bytecode[pos:addressEnd]

	suffixStart := addressEnd + eip1167SuffixOffset
	if len(bytecode) < suffixStart+len(eip1167Suffix) {
		return common.Address{}, fmt.Errorf("not an eip1167 bytecode")
	}
	if !bytes.Equal(bytecode[suffixStart:suffixStart+len(eip1167Suffix)], eip1167Suffix) {
		return common.Address{}, fmt.Errorf("not an eip1167 bytecode")
	}

	padded := make([]byte, 20)
	copy(padded[20-addressLength:], addressBytes)
	return common.BytesToAddress(padded), nil
}
