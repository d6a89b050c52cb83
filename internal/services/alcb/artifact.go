package alcb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract: its ABI and creation bytecode.
type Artifact struct {
	Name     string
	ABI      abi.ABI
	Bytecode []byte
}

// rawArtifact covers both hardhat ("bytecode": "0x..") and foundry
// ("bytecode": {"object": "0x.."}) layouts.
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

// LoadArtifact reads a compiled contract artifact from path.
func LoadArtifact(path string) (Artifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("read artifact: %w (run 'npx hardhat compile' first)", err)
	}
	return ParseArtifact(b)
}

func ParseArtifact(data []byte) (Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return Artifact{}, fmt.Errorf("parse artifact: %w", err)
	}
	if len(raw.ABI) == 0 {
		return Artifact{}, fmt.Errorf("parse artifact: missing abi")
	}
	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return Artifact{}, fmt.Errorf("parse ABI: %w", err)
	}

	code, err := bytecodeHex(raw.Bytecode)
	if err != nil {
		return Artifact{}, err
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	bytecode, err := hexutil.Decode(code)
	if err != nil {
		return Artifact{}, fmt.Errorf("decode bytecode: %w", err)
	}
	if len(bytecode) == 0 {
		return Artifact{}, fmt.Errorf("artifact %q has no bytecode (abstract contract or interface?)", raw.ContractName)
	}

	return Artifact{Name: raw.ContractName, ABI: parsed, Bytecode: bytecode}, nil
}

func bytecodeHex(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("parse artifact bytecode: %w", err)
	}
	return obj.Object, nil
}
