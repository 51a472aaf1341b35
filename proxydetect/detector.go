package proxydetect

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

// Storage slots for the slot based proxy patterns.
var (
	eip1967LogicSlot               = common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc")
	openZeppelinImplementationSlot = common.HexToHash("0x7050c9e0f4ca769c69bd3a8ef740bc37934f8e2c036e5a723fd8ee048ed3f8c3")
	eip1822LogicSlot               = common.HexToHash("0xc5f16f0fcc639fa48a6947836d9850f504798523bf8c9a3a87d5876cf622bcf7")
	eip1967BeaconSlot              = common.HexToHash("0xa3f0ad74e5423aebfd80d3ef4346578335a9a72aeaee59ff6cb3582b35133d50")
)

// Method selectors for the call based patterns.
var (
	selectorImplementation      = common.FromHex("0x5c60da1b")
	selectorProxyType           = common.FromHex("0x4555d5c9")
	selectorChildImplementation = common.FromHex("0xda525716")
	selectorMasterCopy          = common.FromHex("0xa619486e")
	selectorComptrollerImpl     = common.FromHex("0xbb82aa5e")
	selectorVersion             = common.FromHex("0x54fd4d50")
	selectorGetLibrary          = common.FromHex("0x7678922e")
	selectorFacetAddresses      = common.FromHex("0x52ef6b2c")
)

var one = big.NewInt(1)

type Detector struct {
	reader ChainReader
}

func NewDetector(reader ChainReader) *Detector {
	return &Detector{reader: reader}
}

type detectFunc func(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error)

// Detect probes the known proxy patterns in a fixed order and returns the
// first match, or nil when the contract matches none of them. blockNumber
// nil means latest.
func (d *Detector) Detect(ctx context.Context, address common.Address, blockNumber *big.Int) *Result {
	detectors := []detectFunc{
		d.detectEip1167,
		d.detectEip1967Direct,
		d.detectEip1967Beacon,
		d.detectOpenZeppelin,
		d.detectEip1822,
		d.detectEip897,
		d.detectSafe,
		d.detectComptroller,
		d.detectBatchRelayer,
		d.detectEip2535Diamond,
	}
	for _, detect := range detectors {
		if result, err := detect(ctx, address, blockNumber); err == nil && result != nil {
			return result
		}
	}
	return nil
}

func (d *Detector) detectEip1167(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	bytecode, err := d.reader.CodeAt(ctx, address, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("get code is err: %v", err)
	}
	target, err := ParseEip1167Bytecode(bytecode)
	if err != nil {
		return nil, err
	}
	return &Result{Targets: []common.Address{target}, Type: ProxyTypeEip1167, Immutable: true}, nil
}

func (d *Detector) detectEip1967Direct(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	return d.detectStorageSlot(ctx, address, eip1967LogicSlot, ProxyTypeEip1967Direct, blockNumber)
}

func (d *Detector) detectOpenZeppelin(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	return d.detectStorageSlot(ctx, address, openZeppelinImplementationSlot, ProxyTypeOpenZeppelin, blockNumber)
}

func (d *Detector) detectEip1822(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	return d.detectStorageSlot(ctx, address, eip1822LogicSlot, ProxyTypeEip1822, blockNumber)
}

func (d *Detector) detectStorageSlot(ctx context.Context, address common.Address, slot common.Hash, proxyType ProxyType, blockNumber *big.Int) (*Result, error) {
	storage, err := d.reader.StorageAt(ctx, address, slot, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("get storage is err: %v", err)
	}
	target, err := readAddress(storage)
	if err != nil {
		return nil, err
	}
	return &Result{Targets: []common.Address{target}, Type: proxyType, Immutable: false}, nil
}

func (d *Detector) detectEip1967Beacon(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	storage, err := d.reader.StorageAt(ctx, address, eip1967BeaconSlot, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("get storage is err: %v", err)
	}
	beacon, err := readAddress(storage)
	if err != nil {
		return nil, err
	}

	// implementation() first, childImplementation() as the fallback
	implData, err := d.call(ctx, beacon, selectorImplementation, blockNumber)
	if err != nil {
		implData, err = d.call(ctx, beacon, selectorChildImplementation, blockNumber)
		if err != nil {
			return nil, err
		}
	}
	target, err := readAddress(implData)
	if err != nil {
		return nil, err
	}
	return &Result{Targets: []common.Address{target}, Type: ProxyTypeEip1967Beacon, Immutable: false}, nil
}

func (d *Detector) detectEip897(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	implData, err := d.call(ctx, address, selectorImplementation, blockNumber)
	if err != nil {
		return nil, err
	}
	target, err := readAddress(implData)
	if err != nil {
		return nil, err
	}

	// proxyType() == 1 marks a forwarding proxy with an immutable target
	immutable := false
	if typeData, err := d.call(ctx, address, selectorProxyType, blockNumber); err == nil && len(typeData) == 32 {
		immutable = new(big.Int).SetBytes(typeData).Cmp(one) == 0
	}
	return &Result{Targets: []common.Address{target}, Type: ProxyTypeEip897, Immutable: immutable}, nil
}

func (d *Detector) detectSafe(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	data, err := d.call(ctx, address, selectorMasterCopy, blockNumber)
	if err != nil {
		return nil, err
	}
	target, err := readAddress(data)
	if err != nil {
		return nil, err
	}
	return &Result{Targets: []common.Address{target}, Type: ProxyTypeSafe, Immutable: false}, nil
}

func (d *Detector) detectComptroller(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	data, err := d.call(ctx, address, selectorComptrollerImpl, blockNumber)
	if err != nil {
		return nil, err
	}
	target, err := readAddress(data)
	if err != nil {
		return nil, err
	}
	return &Result{Targets: []common.Address{target}, Type: ProxyTypeComptroller, Immutable: false}, nil
}

func (d *Detector) detectBatchRelayer(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	versionData, err := d.call(ctx, address, selectorVersion, blockNumber)
	if err != nil {
		return nil, err
	}
	versionString, err := readString(versionData)
	if err != nil {
		return nil, err
	}
	var version struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(versionString), &version); err != nil {
		return nil, fmt.Errorf("parse version is err: %v", err)
	}
	if version.Name != "BatchRelayer" {
		return nil, fmt.Errorf("not a batch relayer")
	}

	libraryData, err := d.call(ctx, address, selectorGetLibrary, blockNumber)
	if err != nil {
		return nil, err
	}
	target, err := readAddress(libraryData)
	if err != nil {
		return nil, err
	}
	return &Result{Targets: []common.Address{target}, Type: ProxyTypeBatchRelayer, Immutable: true}, nil
}

func (d *Detector) detectEip2535Diamond(ctx context.Context, address common.Address, blockNumber *big.Int) (*Result, error) {
	data, err := d.call(ctx, address, selectorFacetAddresses, blockNumber)
	if err != nil {
		return nil, err
	}
	facets, err := readAddressArray(data)
	if err != nil {
		return nil, err
	}
	return &Result{Targets: facets, Type: ProxyTypeEip2535Diamond, Immutable: false}, nil
}

func (d *Detector) call(ctx context.Context, to common.Address, selector []byte, blockNumber *big.Int) ([]byte, error) {
	data, err := d.reader.CallContract(ctx, ethereum.CallMsg{To: &to, Data: selector}, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("call %s is err: %v", to, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("call %s returned no data", to)
	}
	return data, nil
}
