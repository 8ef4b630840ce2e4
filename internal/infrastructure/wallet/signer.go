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

// RemoteSigner delegates transaction building and signing to a
// co-located signer service that holds the private key. The bot never
// sees key material.
type RemoteSigner struct {
	endpoint string
	wallet   string
	client   *http.Client
}

func NewRemoteSigner(endpoint, walletAddress string) *RemoteSigner {
	return &RemoteSigner{
		endpoint: endpoint,
		wallet:   walletAddress,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type signRequest struct {
	Wallet  string  `json:"wallet"`
	AssetID string  `json:"asset_id"`
	Side    string  `json:"side"`
	Amount  float64 `json:"amount"`
}

type signResponse struct {
	Transaction string `json:"transaction"` // base64-encoded signed tx
	Error       string `json:"error"`
}

func (s *RemoteSigner) SignTransfer(ctx context.Context, assetID string, side domain.Side, amount float64) (string, error) {
	payload, err := json.Marshal(signRequest{
		Wallet:  s.wallet,
		AssetID: assetID,
		Side:    string(side),
		Amount:  amount,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"/sign", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("signer status %d", resp.StatusCode)
	}

	var out signResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if out.Error != "" {
		return "", fmt.Errorf("signer: %s", out.Error)
	}
	if out.Transaction == "" {
		return "", fmt.Errorf("signer returned empty transaction")
	}
	return out.Transaction, nil
}
