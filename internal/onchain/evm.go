package onchain

// EVM reader: talks to any EVM node over JSON-RPC eth_call
// Covers the narrow read-only surface the engine needs: ERC-20
// metadata, factory getPair, pool token ordering and reserves
// Call data is built by hand from 4-byte selectors; no chain SDK

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode/utf8"

	"token-radar/internal/infra/httpx"
)

// Function selectors: first 4 bytes of keccak256 of the signature.
const (
	selName        = "0x06fdde03" // name()
	selSymbol      = "0x95d89b41" // symbol()
	selDecimals    = "0x313ce567" // decimals()
	selTotalSupply = "0x18160ddd" // totalSupply()
	selGetPair     = "0xe6a43905" // getPair(address,address)
	selToken0      = "0x0dfe1681" // token0()
	selToken1      = "0xd21220a7" // token1()
	selGetReserves = "0x0902f1ac" // getReserves()
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// EVMClient reads contract state from one chain's RPC endpoint.
type EVMClient struct {
	rpcURL string
	http   *httpx.Client
}

func NewEVMClient(rpcURL string) *EVMClient {
	return &EVMClient{
		rpcURL: rpcURL,
		http:   httpx.NewClient("evm-rpc", httpx.WithTimeout(10*time.Second)),
	}
}

// ethCall performs eth_call against the latest block and returns the
// raw return data.
func (c *EVMClient) ethCall(ctx context.Context, to, data string) ([]byte, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		Method:  "eth_call",
		Params: []interface{}{
			map[string]string{"to": to, "data": data},
			"latest",
		},
		ID: 1,
	}

	var rpcResp rpcResponse
	if err := c.http.PostJSON(ctx, c.rpcURL, req, &rpcResp); err != nil {
		return nil, err
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}

	var resultHex string
	if err := json.Unmarshal(rpcResp.Result, &resultHex); err != nil {
		return nil, fmt.Errorf("rpc result: %w", err)
	}
	return hex.DecodeString(strings.TrimPrefix(resultHex, "0x"))
}

// TokenDecimals reads decimals(); callers default to 18 on failure.
func (c *EVMClient) TokenDecimals(ctx context.Context, tokenAddr string) (int, error) {
	data, err := c.ethCall(ctx, tokenAddr, selDecimals)
	if err != nil {
		return 0, err
	}
	value, err := decodeUint256(data)
	if err != nil {
		return 0, err
	}
	return int(value.Int64()), nil
}

// TokenMetadata reads name, symbol, decimals and totalSupply in one
// sweep. Individual field failures zero that field only.
func (c *EVMClient) TokenMetadata(ctx context.Context, tokenAddr string) (name, symbol string, decimals int, totalSupply *big.Int, err error) {
	nameData, nameErr := c.ethCall(ctx, tokenAddr, selName)
	symbolData, symbolErr := c.ethCall(ctx, tokenAddr, selSymbol)
	decimalsData, decimalsErr := c.ethCall(ctx, tokenAddr, selDecimals)
	supplyData, supplyErr := c.ethCall(ctx, tokenAddr, selTotalSupply)

	if nameErr != nil && symbolErr != nil && decimalsErr != nil && supplyErr != nil {
		return "", "", 0, nil, fmt.Errorf("token metadata unreadable: %w", nameErr)
	}

	if nameErr == nil {
		name = decodeString(nameData)
	}
	if symbolErr == nil {
		symbol = decodeString(symbolData)
	}
	decimals = 18
	if decimalsErr == nil {
		if value, err := decodeUint256(decimalsData); err == nil {
			decimals = int(value.Int64())
		}
	}
	if supplyErr == nil {
		totalSupply, _ = decodeUint256(supplyData)
	}
	return name, symbol, decimals, totalSupply, nil
}

// GetPair queries a factory for the pool of two tokens. Returns empty
// when the factory reports the zero address.
func (c *EVMClient) GetPair(ctx context.Context, factory, tokenA, tokenB string) (string, error) {
	data := selGetPair + padAddress(tokenA) + padAddress(tokenB)
	result, err := c.ethCall(ctx, factory, data)
	if err != nil {
		return "", err
	}
	pair, err := decodeAddress(result)
	if err != nil {
		return "", err
	}
	if pair == zeroAddress {
		return "", nil
	}
	return pair, nil
}

// PairTokens reads token0/token1 of a pool.
func (c *EVMClient) PairTokens(ctx context.Context, pair string) (token0, token1 string, err error) {
	data0, err := c.ethCall(ctx, pair, selToken0)
	if err != nil {
		return "", "", err
	}
	data1, err := c.ethCall(ctx, pair, selToken1)
	if err != nil {
		return "", "", err
	}
	token0, err = decodeAddress(data0)
	if err != nil {
		return "", "", err
	}
	token1, err = decodeAddress(data1)
	return token0, token1, err
}

// GetReserves reads the raw pool reserves.
func (c *EVMClient) GetReserves(ctx context.Context, pair string) (reserve0, reserve1 *big.Int, err error) {
	data, err := c.ethCall(ctx, pair, selGetReserves)
	if err != nil {
		return nil, nil, err
	}
	// Return layout: uint112 reserve0, uint112 reserve1, uint32 ts,
	// each padded to a 32-byte word.
	if len(data) < 64 {
		return nil, nil, fmt.Errorf("short getReserves return: %d bytes", len(data))
	}
	reserve0 = new(big.Int).SetBytes(data[:32])
	reserve1 = new(big.Int).SetBytes(data[32:64])
	return reserve0, reserve1, nil
}

// padAddress left-pads an address to a 32-byte ABI word (hex, no 0x).
func padAddress(addr string) string {
	addr = strings.ToLower(strings.TrimPrefix(addr, "0x"))
	return strings.Repeat("0", 64-len(addr)) + addr
}

func decodeUint256(data []byte) (*big.Int, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("short uint256 return: %d bytes", len(data))
	}
	return new(big.Int).SetBytes(data[:32]), nil
}

func decodeAddress(data []byte) (string, error) {
	if len(data) < 32 {
		return "", fmt.Errorf("short address return: %d bytes", len(data))
	}
	return "0x" + hex.EncodeToString(data[12:32]), nil
}

// decodeString handles both ABI dynamic strings and the legacy
// bytes32 encoding some old tokens use.
func decodeString(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) >= 64 {
		offset := new(big.Int).SetBytes(data[:32]).Uint64()
		if offset+32 <= uint64(len(data)) {
			length := new(big.Int).SetBytes(data[offset : offset+32]).Uint64()
			if offset+32+length <= uint64(len(data)) {
				s := string(data[offset+32 : offset+32+length])
				if utf8.ValidString(s) {
					return strings.TrimSpace(s)
				}
			}
		}
	}
	// bytes32: right-padded with NULs
	trimmed := strings.TrimRight(string(data[:min(32, len(data))]), "\x00")
	if utf8.ValidString(trimmed) {
		return strings.TrimSpace(trimmed)
	}
	return ""
}
