package onchain

// Solana reader: JSON-RPC 2.0 over HTTP
// Only getTokenSupply and getAccountInfo, which is everything the
// market fallback needs to describe an SPL mint

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"token-radar/internal/infra/httpx"
)

// SolanaClient reads SPL mint state from a Solana RPC endpoint.
type SolanaClient struct {
	endpoint  string
	http      *httpx.Client
	requestID atomic.Uint64
}

func NewSolanaClient(endpoint string) *SolanaClient {
	return &SolanaClient{
		endpoint: endpoint,
		http:     httpx.NewClient("solana-rpc", httpx.WithTimeout(10*time.Second)),
	}
}

type solanaRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type solanaRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *solanaRPCError `json:"error,omitempty"`
}

type solanaRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *solanaRPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

func (c *SolanaClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	req := solanaRPCRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	var rpcResp solanaRPCResponse
	if err := c.http.PostJSON(ctx, c.endpoint, req, &rpcResp); err != nil {
		return err
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return nil
}

// TokenSupply is the value object of getTokenSupply.
type TokenSupply struct {
	Amount   string  `json:"amount"`
	Decimals int     `json:"decimals"`
	UIAmount float64 `json:"uiAmount"`
}

// GetTokenSupply returns the total supply of an SPL mint.
func (c *SolanaClient) GetTokenSupply(ctx context.Context, mint string) (*TokenSupply, error) {
	var result struct {
		Value *TokenSupply `json:"value"`
	}
	if err := c.call(ctx, "getTokenSupply", []interface{}{mint}, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, fmt.Errorf("empty token supply for %s", mint)
	}
	return result.Value, nil
}

// MintInfo is the jsonParsed spl-token mint account payload.
type MintInfo struct {
	Decimals        int    `json:"decimals"`
	Supply          string `json:"supply"`
	MintAuthority   string `json:"mintAuthority"`
	FreezeAuthority string `json:"freezeAuthority"`
	IsInitialized   bool   `json:"isInitialized"`
}

// GetMintInfo reads the mint account with jsonParsed encoding. Returns
// nil without error when the account is not an spl-token mint.
func (c *SolanaClient) GetMintInfo(ctx context.Context, mint string) (*MintInfo, error) {
	var result struct {
		Value *struct {
			Data struct {
				Program string `json:"program"`
				Parsed  struct {
					Type string          `json:"type"`
					Info json.RawMessage `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"value"`
	}
	params := []interface{}{mint, map[string]string{"encoding": "jsonParsed"}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil || result.Value.Data.Program != "spl-token" {
		return nil, nil
	}
	var info MintInfo
	if err := json.Unmarshal(result.Value.Data.Parsed.Info, &info); err != nil {
		return nil, fmt.Errorf("unmarshal mint info: %w", err)
	}
	return &info, nil
}
