// Package wallet is the execution boundary: it submits prepared
// transactions to a Solana RPC node and maps the reply to a trade
// result. Transaction signing lives behind the Signer interface and is
// outside this package.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/solwatch/memetrader/internal/domain"
)

// Signer builds and signs the transfer/swap transaction for an
// execution request, returning the encoded wire payload. Implemented
// by the external wallet collaborator.
type Signer interface {
	SignTransfer(ctx context.Context, assetID string, side domain.Side, amount float64) (string, error)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SolanaExecutor submits transactions through the sendTransaction RPC.
// It makes exactly one submission per call; retry policy belongs to the
// caller (the scheduler never retries).
type SolanaExecutor struct {
	rpcURL string
	signer Signer
	client *http.Client
}

func NewSolanaExecutor(rpcURL string, signer Signer) *SolanaExecutor {
	return &SolanaExecutor{
		rpcURL: rpcURL,
		signer: signer,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Execute signs and submits one transfer. The returned reference is
// the transaction signature; any failure is an ExecutionError.
func (e *SolanaExecutor) Execute(ctx context.Context, assetID string, side domain.Side, amount float64) (*domain.TradeResult, error) {
	if amount <= 0 {
		return nil, &domain.ExecutionError{Reason: "non-positive amount"}
	}

	encodedTx, err := e.signer.SignTransfer(ctx, assetID, side, amount)
	if err != nil {
		return nil, &domain.ExecutionError{Reason: "signing failed", Err: err}
	}

	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "sendTransaction",
		Params:  []any{encodedTx, map[string]any{"encoding": "base64", "skipPreflight": false}},
	})
	if err != nil {
		return nil, &domain.ExecutionError{Reason: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.ExecutionError{Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &domain.ExecutionError{Reason: "rpc call failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.ExecutionError{Reason: "read rpc response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ExecutionError{Reason: fmt.Sprintf("rpc status %d", resp.StatusCode)}
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, &domain.ExecutionError{Reason: "decode rpc response", Err: err}
	}
	if rpcResp.Error != nil {
		return nil, &domain.ExecutionError{Reason: fmt.Sprintf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)}
	}
	if rpcResp.Result == "" {
		return nil, &domain.ExecutionError{Reason: "rpc response missing signature"}
	}

	return &domain.TradeResult{Reference: rpcResp.Result}, nil
}
