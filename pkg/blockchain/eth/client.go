package eth

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

var RpcTimeout = time.Second * 5

// balanceOf(address) selector, shared by ERC-20 and ERC-721.
var balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// Client is a thin indexer over a JSON-RPC endpoint. It implements
// blockchain.Indexer.
type Client struct {
	network string
	client  *ethclient.Client
}

func NewClient(network, rpc string) (*Client, error) {
	client, err := ethclient.Dial(rpc)
	if err != nil {
		return nil, fmt.Errorf("cannot dial %s rpc: %w", network, err)
	}

	return &Client{network: network, client: client}, nil
}

func (c *Client) TokenBalance(ctx context.Context, address, tokenAddress string) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(ctx, RpcTimeout)
	defer cancel()

	if tokenAddress == "" {
		return c.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	}

	return c.balanceOf(ctx, common.HexToAddress(address), common.HexToAddress(tokenAddress))
}

func (c *Client) OwnsNFT(ctx context.Context, address, collectionAddress string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, RpcTimeout)
	defer cancel()

	balance, err := c.balanceOf(ctx, common.HexToAddress(address), common.HexToAddress(collectionAddress))
	if err != nil {
		return false, err
	}

	return balance.Sign() > 0, nil
}

func (c *Client) balanceOf(ctx context.Context, owner, contract common.Address) (*big.Int, error) {
	data := make([]byte, 0, 36)
	data = append(data, balanceOfSelector...)
	data = append(data, common.LeftPadBytes(owner.Bytes(), 32)...)

	result, err := c.client.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("empty balanceOf response from %s", contract.Hex())
	}

	return new(big.Int).SetBytes(result), nil
}
