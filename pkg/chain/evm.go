package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/kitswap/dex-middleware/pkg/config"
)

// EVMClient is the ethclient-backed implementation of Client.
type EVMClient struct {
	config     *config.ChainConfig
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	address    common.Address
	logger     *zap.Logger
}

// NewEVMClient connects to the chain RPC and loads the signing key.
func NewEVMClient(cfg *config.ChainConfig, logger *zap.Logger) (*EVMClient, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain RPC: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.SignerPrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	logger.Info("Connected to chain",
		zap.Int64("chain_id", cfg.ChainID),
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("signer_address", address.Hex()))

	return &EVMClient{
		config:     cfg,
		client:     client,
		privateKey: privateKey,
		address:    address,
		logger:     logger,
	}, nil
}

// Close closes the RPC connection.
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Sender returns the signing address.
func (c *EVMClient) Sender() common.Address {
	return c.address
}

// Broadcast signs and submits the call.
func (c *EVMClient) Broadcast(ctx context.Context, call Call) (common.Hash, error) {
	data, err := call.ABI.Pack(call.Operation, call.Args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to pack %s call: %w", call.Operation, err)
	}

	nonce, err := c.client.PendingNonceAt(ctx, c.address)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.gasPrice(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	value := call.Value
	if value == nil {
		value = big.NewInt(0)
	}

	unsigned := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &call.Target,
		Value:    value,
		Gas:      c.config.GasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(unsigned, types.NewEIP155Signer(big.NewInt(c.config.ChainID)), c.privateKey)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	c.logger.Info("Transaction broadcast",
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.String("operation", call.Operation),
		zap.String("target", call.Target.Hex()))

	return signed.Hash(), nil
}

func (c *EVMClient) gasPrice(ctx context.Context) (*big.Int, error) {
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	if c.config.MaxGasPrice != "" {
		maxGasPrice := new(big.Int)
		maxGasPrice.SetString(c.config.MaxGasPrice, 10)
		if gasPrice.Cmp(maxGasPrice) > 0 {
			c.logger.Warn("Suggested gas price exceeds maximum",
				zap.String("suggested", gasPrice.String()),
				zap.String("max", maxGasPrice.String()))
			gasPrice = maxGasPrice
		}
	}

	return gasPrice, nil
}

// AwaitConfirmation polls for the receipt until ctx is done. The caller
// owns the deadline: a transaction stuck in the mempool keeps its
// record pending rather than being reported as failed.
func (c *EVMClient) AwaitConfirmation(ctx context.Context, hash common.Hash) (Outcome, error) {
	ticker := time.NewTicker(c.config.ReceiptPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return OutcomeError, ctx.Err()
		case <-ticker.C:
			receipt, err := c.client.TransactionReceipt(ctx, hash)
			if err != nil {
				if errors.Is(err, ethereum.NotFound) {
					continue
				}
				c.logger.Warn("Failed to fetch receipt",
					zap.String("tx_hash", hash.Hex()),
					zap.Error(err))
				continue
			}

			if receipt.Status == types.ReceiptStatusSuccessful {
				return OutcomeSuccess, nil
			}
			return OutcomeError, nil
		}
	}
}
