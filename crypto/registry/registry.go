// Package registry implements the node's client to the external
// append-only registry of node public keys. The registry exposes two
// capabilities: publish a public key as bytes32[2], and query whether a
// bytes32[2] public key is already registered.
package registry

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/voprf-id/node/crypto/ecc/secp256k1"
	"github.com/voprf-id/node/crypto/signatures/ethereum"
	"github.com/voprf-id/node/log"
)

// registryABIJSON is the minimal ABI surface this node needs from the
// registry contract: a write (register) and a read (isRegistered), each
// keyed by the node's public key marshalled as two 32-byte words.
const registryABIJSON = `[
	{"type":"function","name":"register","stateMutability":"nonpayable",
	 "inputs":[{"name":"publicKey","type":"bytes32[2]"}],"outputs":[]},
	{"type":"function","name":"isRegistered","stateMutability":"view",
	 "inputs":[{"name":"publicKey","type":"bytes32[2]"}],"outputs":[{"name":"","type":"bool"}]}
]`

var registryABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(registryABIJSON))
	if err != nil {
		panic(fmt.Errorf("parse registry ABI: %w", err))
	}
	registryABI = parsed
}

// callTimeout bounds a single registry RPC call.
const callTimeout = 10 * time.Second

// Registry is the node's view of the external registry: announce a public
// key once, and later ask whether a public key is known.
type Registry interface {
	// Register publishes pubKey (the node's Y = sk*G, marshalled as its x
	// and y coordinates) to the registry.
	Register(ctx context.Context, pubKey [2][32]byte) error
	// IsRegistered reports whether pubKey is already known to the registry.
	IsRegistered(ctx context.Context, pubKey [2][32]byte) (bool, error)
}

// PublicKeyWords marshals a curve point as the two fixed 32-byte
// big-endian words the registry contract expects.
func PublicKeyWords(y *secp256k1.Point) [2][32]byte {
	return [2][32]byte{y.XBytes32(), y.YBytes32()}
}

// Client is a Registry backed by a real on-chain contract, reached over
// JSON-RPC via go-ethereum.
type Client struct {
	cli      *ethclient.Client
	contract *bind.BoundContract
	addr     common.Address
	signer   *ethereum.Signer
	chainID  *big.Int
}

// Dial connects to rpcURL and binds the registry contract at addr. signer
// authorizes the Register transaction; it is not required for read-only
// IsRegistered calls (signer may be nil in that case).
func Dial(ctx context.Context, rpcURL string, addr common.Address, signer *ethereum.Signer) (*Client, error) {
	cli, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial registry RPC %s: %w", rpcURL, err)
	}
	chainID, err := cli.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}
	return &Client{
		cli:      cli,
		contract: bind.NewBoundContract(addr, registryABI, cli, cli, cli),
		addr:     addr,
		signer:   signer,
		chainID:  chainID,
	}, nil
}

// Register calls register(pubKey) on the registry contract, signed by the
// client's configured signer, and waits for the transaction to be mined.
func (c *Client) Register(ctx context.Context, pubKey [2][32]byte) error {
	if c.signer == nil {
		return fmt.Errorf("no signer configured for registry writes")
	}
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	auth, err := bind.NewKeyedTransactorWithChainID((*ecdsa.PrivateKey)(c.signer), c.chainID)
	if err != nil {
		return fmt.Errorf("build transactor: %w", err)
	}
	auth.Context = callCtx

	nonce, err := c.cli.PendingNonceAt(callCtx, c.signer.Address())
	if err != nil {
		return fmt.Errorf("fetch account nonce: %w", err)
	}
	auth.Nonce = new(big.Int).SetUint64(nonce)

	tx, err := c.contract.Transact(auth, "register", pubKey)
	if err != nil {
		return fmt.Errorf("send register transaction: %w", err)
	}
	log.Infow("registry announcement submitted", "tx", tx.Hash().Hex())

	receipt, err := bind.WaitMined(callCtx, c.cli, tx)
	if err != nil {
		return fmt.Errorf("wait for register transaction: %w", err)
	}
	if receipt.Status != gethTxSuccess {
		return fmt.Errorf("register transaction reverted (tx %s)", tx.Hash().Hex())
	}
	return nil
}

// gethTxSuccess is go-ethereum's core/types.ReceiptStatusSuccessful value,
// restated here so this file doesn't need the core/types import solely for
// one constant.
const gethTxSuccess = 1

// Address returns the registry contract address this client is bound to.
func (c *Client) Address() common.Address {
	return c.addr
}

// IsRegistered calls the read-only isRegistered(pubKey) view function.
func (c *Client) IsRegistered(ctx context.Context, pubKey [2][32]byte) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	var out []any
	err := c.contract.Call(&bind.CallOpts{Context: callCtx}, &out, "isRegistered", pubKey)
	if err != nil {
		return false, fmt.Errorf("call isRegistered: %w", err)
	}
	if len(out) != 1 {
		return false, fmt.Errorf("unexpected isRegistered return shape")
	}
	registered, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isRegistered return type")
	}
	return registered, nil
}
