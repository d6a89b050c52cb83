package alcb

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"devchain/internal/domain"
)

// DefaultPercentage is the shareholder's cut in tenths of a percent (10%).
const DefaultPercentage = 1000

var ErrTxFailed = errors.New("alcb: transaction reverted")

// Backend is what the deployer needs from a node connection; *ethclient.Client
// satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Options configures one deployment.
type Options struct {
	Shareholder     common.Address
	Percentage      int64
	IsMagicTransfer bool
	MintValue       *big.Int // wei sent with mint; nil or zero skips minting
	GasLimit        uint64   // per transaction; zero estimates
}

// Result summarises a deployment.
type Result struct {
	Address        common.Address
	Owner          common.Address
	DeployTx       common.Hash
	MintTx         common.Hash
	InitialBalance *big.Int
	EndingBalance  *big.Int
}

// Service deploys ALCB with a single shareholder and mints to the owner.
type Service struct {
	backend Backend
	key     *ecdsa.PrivateKey
	chainID *big.Int
	out     domain.Console
	log     *zap.Logger
}

func New(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, out domain.Console, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{backend: backend, key: key, chainID: chainID, out: out, log: log.Named("alcb")}
}

func (s *Service) Owner() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Deploy creates ALCB(owner, [{shareholder, percentage, isMagicTransfer}]),
// reports the owner's balance, mints with opts.MintValue and reports the
// balance again.
func (s *Service) Deploy(ctx context.Context, art Artifact, opts Options) (Result, error) {
	owner := s.Owner()
	res := Result{Owner: owner}

	args, err := ConstructorArgs(art.ABI, owner, opts)
	if err != nil {
		return res, err
	}
	auth, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return res, fmt.Errorf("transactor: %w", err)
	}
	auth.Context = ctx
	auth.GasLimit = opts.GasLimit

	s.notice("Deploying New ALCB with shareHolderAccount: " + opts.Shareholder.Hex())
	addr, tx, contract, err := bind.DeployContract(auth, art.ABI, art.Bytecode, s.backend, args...)
	if err != nil {
		return res, fmt.Errorf("deploy: %w", err)
	}
	res.DeployTx = tx.Hash()
	s.log.Debug("deploy sent", zap.Stringer("tx", tx.Hash()), zap.Stringer("address", addr))

	if err := s.waitSuccess(ctx, tx); err != nil {
		return res, fmt.Errorf("deploy: %w", err)
	}
	res.Address = addr

	res.InitialBalance, err = balanceOf(ctx, contract, owner)
	if err != nil {
		return res, err
	}
	s.notice(fmt.Sprintf("ALCB deployed to %s, owned by %s, shareholder is: %s", addr.Hex(), owner.Hex(), opts.Shareholder.Hex()))
	s.notice(fmt.Sprintf("ALCB Initial Owner Balance: %s, funding account: %s", res.InitialBalance, owner.Hex()))

	if opts.MintValue == nil || opts.MintValue.Sign() == 0 {
		res.EndingBalance = res.InitialBalance
		return res, nil
	}

	auth.Value = opts.MintValue
	mintTx, err := contract.Transact(auth, "mint", MintArgs(art.ABI)...)
	auth.Value = nil
	if err != nil {
		return res, fmt.Errorf("mint: %w", err)
	}
	res.MintTx = mintTx.Hash()
	if err := s.waitSuccess(ctx, mintTx); err != nil {
		return res, fmt.Errorf("mint: %w", err)
	}

	res.EndingBalance, err = balanceOf(ctx, contract, owner)
	if err != nil {
		return res, err
	}
	s.notice(fmt.Sprintf("ALCB Initial Ending Balance: %s", res.EndingBalance))
	return res, nil
}

func (s *Service) waitSuccess(ctx context.Context, tx *types.Transaction) error {
	receipt, err := bind.WaitMined(ctx, s.backend, tx)
	if err != nil {
		return fmt.Errorf("wait mined: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("%w: %s", ErrTxFailed, tx.Hash())
	}
	return nil
}

func (s *Service) notice(text string) {
	s.log.Info(text)
	if s.out != nil {
		s.out.Notice(text)
	}
}

func balanceOf(ctx context.Context, c *bind.BoundContract, owner common.Address) (*big.Int, error) {
	var out []interface{}
	if err := c.Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", owner); err != nil {
		return nil, fmt.Errorf("balanceOf: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("balanceOf: unexpected %d results", len(out))
	}
	bal, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf: unexpected result type %T", out[0])
	}
	return bal, nil
}

// ConstructorArgs builds (owner, [shareholder]) for the artifact's
// constructor. The shareholder tuple is built from the ABI's own struct type so
// it packs whatever integer width the contract declares for percentage.
func ConstructorArgs(contract abi.ABI, owner common.Address, opts Options) ([]interface{}, error) {
	inputs := contract.Constructor.Inputs
	if len(inputs) != 2 {
		return nil, fmt.Errorf("alcb constructor: want 2 inputs, have %d", len(inputs))
	}
	if inputs[0].Type.T != abi.AddressTy {
		return nil, fmt.Errorf("alcb constructor: first input %q is %s, want address", inputs[0].Name, inputs[0].Type)
	}
	holders, err := shareholders(inputs[1].Type, opts)
	if err != nil {
		return nil, err
	}
	return []interface{}{owner, holders}, nil
}

func shareholders(t abi.Type, opts Options) (interface{}, error) {
	if t.T != abi.SliceTy || t.Elem == nil || t.Elem.T != abi.TupleTy {
		return nil, fmt.Errorf("alcb constructor: shareholders input is %s, want tuple[]", t)
	}
	elem := t.Elem
	holder := reflect.New(elem.GetType()).Elem()
	for i, name := range elem.TupleRawNames {
		field := holder.Field(i)
		switch name {
		case "account":
			field.Set(reflect.ValueOf(opts.Shareholder))
		case "percentage":
			if err := setInt(field, opts.Percentage); err != nil {
				return nil, fmt.Errorf("alcb constructor: percentage: %w", err)
			}
		case "isMagicTransfer":
			field.SetBool(opts.IsMagicTransfer)
		default:
			return nil, fmt.Errorf("alcb constructor: unknown shareholder field %q", name)
		}
	}
	list := reflect.MakeSlice(reflect.SliceOf(elem.GetType()), 0, 1)
	return reflect.Append(list, holder).Interface(), nil
}

var bigIntType = reflect.TypeOf((*big.Int)(nil))

func setInt(field reflect.Value, v int64) error {
	switch {
	case field.Type() == bigIntType:
		field.Set(reflect.ValueOf(big.NewInt(v)))
	case field.CanUint():
		if v < 0 || field.OverflowUint(uint64(v)) {
			return fmt.Errorf("%d out of range for %s", v, field.Type())
		}
		field.SetUint(uint64(v))
	case field.CanInt():
		if field.OverflowInt(v) {
			return fmt.Errorf("%d out of range for %s", v, field.Type())
		}
		field.SetInt(v)
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}

// MintArgs returns the arguments for mint: none for mint(), a zero minimum
// for mint(uint256 minBTK).
func MintArgs(contract abi.ABI) []interface{} {
	m, ok := contract.Methods["mint"]
	if !ok || len(m.Inputs) == 0 {
		return nil
	}
	return []interface{}{big.NewInt(0)}
}
