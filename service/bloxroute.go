package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/sirupsen/logrus"

	"github.com/exvulsec/harpoon/client"
)

// MEV builders bloXroute can forward a private transaction to.
const (
	MevBuilderBloxroute  = "bloxroute"
	MevBuilderAll        = "all"
	MevBuilderClub48     = "48club"
	MevBuilderBlockrazor = "blockrazor"
	MevBuilderJetbldr    = "jetbldr"
	MevBuilderNodereal   = "nodereal"
)

type BloXrouteClient struct {
	relayURL      string
	authorization string
	mevBuilders   []string
}

func NewBloXrouteClient(relayURL, authorization string, mevBuilders ...string) *BloXrouteClient {
	return &BloXrouteClient{
		relayURL:      relayURL,
		authorization: authorization,
		mevBuilders:   mevBuilders,
	}
}

type privateTxParams struct {
	Transaction string   `json:"transaction"`
	MevBuilders []string `json:"mev_builders,omitempty"`
}

type privateTxRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  privateTxParams `json:"params"`
}

type privateTxResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SendPrivateTx submits a signed raw transaction to the bloXroute relay so
// it never touches the public mempool.
func (bc *BloXrouteClient) SendPrivateTx(ctx context.Context, rawTx hexutil.Bytes) error {
	request := privateTxRequest{
		JSONRPC: "2.0",
		ID:      "1",
		Method:  "bsc_private_tx",
		Params: privateTxParams{
			Transaction: strings.TrimPrefix(rawTx.String(), "0x"),
			MevBuilders: bc.mevBuilders,
		},
	}
	body, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("marshal private tx request is err: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, bc.relayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create private tx request is err: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bc.authorization)

	resp, err := client.HTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("send private tx is err: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read private tx response is err: %v", err)
	}
	var txResponse privateTxResponse
	if err := json.Unmarshal(data, &txResponse); err != nil {
		return fmt.Errorf("unmarshal private tx response is err: %v", err)
	}
	if txResponse.Error != nil {
		return fmt.Errorf("relay rejected private tx, code %d: %s", txResponse.Error.Code, txResponse.Error.Message)
	}

	logrus.Infof("sent private tx to relay, result is %s", string(txResponse.Result))
	return nil
}
