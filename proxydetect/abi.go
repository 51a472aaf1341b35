package proxydetect

import (
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
)

var zeroAddress = common.Address{}

// readAddress decodes an address from a 20 or 32 byte word. The zero
// address counts as a miss.
func readAddress(data []byte) (common.Address, error) {
	if len(data) == 0 {
		return common.Address{}, fmt.Errorf("empty address value")
	}

	var addr common.Address
	switch {
	case len(data) == 32:
		addr = common.BytesToAddress(data[12:])
	case len(data) == 20:
		addr = common.BytesToAddress(data)
	default:
		return common.Address{}, fmt.Errorf("invalid address value length %d", len(data))
	}

	if addr == zeroAddress {
		return common.Address{}, fmt.Errorf("empty address")
	}
	return addr, nil
}

// readAddressArray decodes an ABI encoded dynamic address[], keeping its
// order and skipping zero entries.
func readAddressArray(data []byte) ([]common.Address, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("insufficient data for address[]")
	}

	offset := new(big.Int).SetBytes(data[:32])
	if !offset.IsUint64() || offset.Uint64() > uint64(len(data)-32) {
		return nil, fmt.Errorf("invalid dynamic offset for address[]")
	}
	cursor := int(offset.Uint64())

	length := new(big.Int).SetBytes(data[cursor : cursor+32])
	if !length.IsUint64() {
		return nil, fmt.Errorf("invalid address[] length")
	}
	count := int(length.Uint64())
	cursor += 32

	if len(data) < cursor+count*32 {
		return nil, fmt.Errorf("truncated address[] data")
	}

	addresses := make([]common.Address, 0, count)
	for i := 0; i < count; i++ {
		word := data[cursor : cursor+32]
		cursor += 32
		addr := common.BytesToAddress(word[12:])
		if addr != zeroAddress {
			addresses = append(addresses, addr)
		}
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("empty address[]")
	}
	return addresses, nil
}

// readString decodes an ABI encoded string returned by eth_call.
func readString(data []byte) (string, error) {
	if len(data) < 64 {
		return "", fmt.Errorf("invalid string offset")
	}

	offset := new(big.Int).SetBytes(data[:32])
	if offset.Cmp(big.NewInt(32)) != 0 {
		return "", fmt.Errorf("invalid string offset")
	}

	length := new(big.Int).SetBytes(data[32:64])
	if !length.IsUint64() {
		return "", fmt.Errorf("invalid string length")
	}
	end := 64 + int(length.Uint64())
	if len(data) < end {
		return "", fmt.Errorf("insufficient string data")
	}

	raw := data[64:end]
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("invalid utf-8 data")
	}
	return string(raw), nil
}
