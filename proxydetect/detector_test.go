package proxydetect

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/magiconair/properties/assert"
)

func TestParseEip1167Bytecode(t *testing.T) {
	bytecode := common.FromHex("0x363d3d373d3d3d363d73bebebebebebebebebebebebebebebebebebebebe5af43d82803e903d91602b57fd5bf3")
	target, err := ParseEip1167Bytecode(bytecode)
	if err != nil {
		t.Fatalf("parse eip1167 bytecode is err: %v", err)
	}
	assert.Equal(t, target, common.HexToAddress("0xbebebebebebebebebebebebebebebebebebebebe"))
}

func TestParseEip1167BytecodeVanity(t *testing.T) {
	// push2 proxy with a two byte vanity address
	bytecode := common.FromHex("0x363d3d373d3d3d363d61beef5af43d82803e903d91602b57fd5bf3")
	target, err := ParseEip1167Bytecode(bytecode)
	if err != nil {
		t.Fatalf("parse eip1167 bytecode is err: %v", err)
	}
	assert.Equal(t, target, common.HexToAddress("0x000000000000000000000000000000000000beef"))
}

func TestParseEip1167BytecodeRejectsOthers(t *testing.T) {
	tests := []struct {
		name     string
		bytecode string
	}{
		{name: "empty", bytecode: "0x"},
		{name: "wrong prefix", bytecode: "0x6080604052"},
		{name: "truncated", bytecode: "0x363d3d373d3d3d363d73bebebebebebebebebebebe"},
		{name: "wrong suffix", bytecode: "0x363d3d373d3d3d363d73bebebebebebebebebebebebebebebebebebebebe5af43d82803e903d91602b57fd5bf4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseEip1167Bytecode(common.FromHex(tt.bytecode)); err == nil {
				t.Fatal("expected a parse error")
			}
		})
	}
}

func TestReadString(t *testing.T) {
	data := common.FromHex("0x000000000000000000000000000000000000000000000000000000000000002000000000000000000000000000000000000000000000000000000000000000057465737400000000000000000000000000000000000000000000000000000000")
	got, err := readString(data)
	if err != nil {
		t.Fatalf("read string is err: %v", err)
	}
	assert.Equal(t, got, "test")
}

func TestReadAddressArray(t *testing.T) {
	data := common.FromHex("0x0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"000000000000000000000000bebebebebebebebebebebebebebebebebebebebe" +
		"000000000000000000000000cafecafecafecafecafecafecafecafecafecafe")
	got, err := readAddressArray(data)
	if err != nil {
		t.Fatalf("read address array is err: %v", err)
	}
	assert.Equal(t, got, []common.Address{
		common.HexToAddress("0xbebebebebebebebebebebebebebebebebebebebe"),
		common.HexToAddress("0xcafecafecafecafecafecafecafecafecafecafe"),
	})
}

type fakeReader struct {
	code    map[common.Address][]byte
	storage map[common.Hash][]byte
	calls   map[string][]byte
}

func (f *fakeReader) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return f.code[account], nil
}

func (f *fakeReader) StorageAt(ctx context.Context, account common.Address, key common.Hash, blockNumber *big.Int) ([]byte, error) {
	if value, ok := f.storage[key]; ok {
		return value, nil
	}
	return make([]byte, 32), nil
}

func (f *fakeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if data, ok := f.calls[common.Bytes2Hex(msg.Data)]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("execution reverted")
}

func TestDetectEip1967Direct(t *testing.T) {
	proxy := common.HexToAddress("0x1111111111111111111111111111111111111111")
	impl := common.HexToAddress("0xbebebebebebebebebebebebebebebebebebebebe")
	reader := &fakeReader{
		storage: map[common.Hash][]byte{
			eip1967LogicSlot: common.LeftPadBytes(impl.Bytes(), 32),
		},
	}

	result := NewDetector(reader).Detect(context.Background(), proxy, nil)
	if result == nil {
		t.Fatal("expected a proxy result")
	}
	assert.Equal(t, result.Type, ProxyTypeEip1967Direct)
	assert.Equal(t, result.Target(), impl)
	assert.Equal(t, result.Immutable, false)
}

func TestDetectEip1167FirstWins(t *testing.T) {
	proxy := common.HexToAddress("0x1111111111111111111111111111111111111111")
	impl := common.HexToAddress("0xbebebebebebebebebebebebebebebebebebebebe")
	reader := &fakeReader{
		code: map[common.Address][]byte{
			proxy: common.FromHex("0x363d3d373d3d3d363d73bebebebebebebebebebebebebebebebebebebebe5af43d82803e903d91602b57fd5bf3"),
		},
		storage: map[common.Hash][]byte{
			eip1967LogicSlot: common.LeftPadBytes(common.HexToAddress("0xcafecafecafecafecafecafecafecafecafecafe").Bytes(), 32),
		},
	}

	result := NewDetector(reader).Detect(context.Background(), proxy, nil)
	if result == nil {
		t.Fatal("expected a proxy result")
	}
	assert.Equal(t, result.Type, ProxyTypeEip1167)
	assert.Equal(t, result.Target(), impl)
	assert.Equal(t, result.Immutable, true)
}

func TestDetectDiamond(t *testing.T) {
	proxy := common.HexToAddress("0x1111111111111111111111111111111111111111")
	facets := common.FromHex("0x0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000002" +
		"000000000000000000000000bebebebebebebebebebebebebebebebebebebebe" +
		"000000000000000000000000cafecafecafecafecafecafecafecafecafecafe")
	reader := &fakeReader{
		calls: map[string][]byte{
			common.Bytes2Hex(selectorFacetAddresses): facets,
		},
	}

	result := NewDetector(reader).Detect(context.Background(), proxy, nil)
	if result == nil {
		t.Fatal("expected a proxy result")
	}
	assert.Equal(t, result.Type, ProxyTypeEip2535Diamond)
	assert.Equal(t, len(result.Targets), 2)
}

func TestDetectNothing(t *testing.T) {
	proxy := common.HexToAddress("0x1111111111111111111111111111111111111111")
	reader := &fakeReader{}

	result := NewDetector(reader).Detect(context.Background(), proxy, nil)
	if result != nil {
		t.Fatalf("expected no result, got %+v", result)
	}
}
