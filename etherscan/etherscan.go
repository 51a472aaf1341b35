package etherscan

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/exvulsec/harpoon/client"
	"github.com/exvulsec/harpoon/config"
)

type ContractSource struct {
	SourceCode     string `json:"SourceCode"`
	ABI            string `json:"ABI"`
	ContractName   string `json:"ContractName"`
	Proxy          string `json:"Proxy"`
	Implementation string `json:"Implementation"`
}

type ContractResponse struct {
	Status  string           `json:"status"`
	Message string           `json:"message"`
	Result  []ContractSource `json:"result"`
}

// GetContractSource fetches the verified source metadata for a contract
// from the configured scan API.
func GetContractSource(address string) (ContractResponse, error) {
	contract := ContractResponse{}
	url := fmt.Sprintf("%s?module=contract&action=getsourcecode&address=%s&apikey=%s",
		config.Conf.ScanAPI.APIServer, address, config.Conf.ScanAPI.APIKey)
	resp, err := client.HTTPClient().Get(url)
	if err != nil {
		return contract, fmt.Errorf("get the contract source code from etherscan is err %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contract, fmt.Errorf("read response body is err :%v", err)
	}

	if err = json.Unmarshal(body, &contract); err != nil {
		return contract, fmt.Errorf("json unmarshall from body %s is err %v", string(body), err)
	}

	if contract.Status != "1" {
		return contract, fmt.Errorf("get contract from scan is err %s", contract.Message)
	}

	return contract, nil
}

// IsVerified reports whether the scan API has verified source for the
// contract.
func IsVerified(address string) (bool, error) {
	contract, err := GetContractSource(address)
	if err != nil {
		return false, err
	}
	return len(contract.Result) > 0 && contract.Result[0].SourceCode != "", nil
}
