package address

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

var (
	ErrNoAddress   = errors.New("address: no PublicStaking address in line")
	ErrBadChecksum = errors.New("address: EIP-55 checksum mismatch")
)

// Scrape extracts the PublicStaking address from a deployment line such as
//
//	Deployed PublicStaking 0x5FbDB2315678afecb367f032d93F642f64180aa3, at block 12
//
// The address is the second whitespace-separated field after "Deployed".
// Anything glued to the front of "Deployed", such as an ANSI colour code, is
// ignored.
func Scrape(line string) (common.Address, error) {
	fields := strings.Fields(line)
	for i := 0; i+2 < len(fields); i++ {
		if !strings.HasSuffix(fields[i], "Deployed") || fields[i+1] != "PublicStaking" {
			continue
		}
		return Parse(strings.TrimRight(fields[i+2], ",;."))
	}
	return common.Address{}, ErrNoAddress
}

// Parse validates a hex address token. Mixed-case input must carry a valid
// EIP-55 checksum; all-lower or all-upper input is accepted as is.
func Parse(token string) (common.Address, error) {
	if !common.IsHexAddress(token) {
		return common.Address{}, ErrNoAddress
	}
	if !ValidChecksum(token) {
		return common.Address{}, ErrBadChecksum
	}
	return common.HexToAddress(token), nil
}

// ValidChecksum reports whether token is either single-case or a correctly
// EIP-55 checksummed address.
func ValidChecksum(token string) bool {
	hex := strings.TrimPrefix(strings.TrimPrefix(token, "0x"), "0X")
	lower := strings.ToLower(hex)
	if hex == lower || hex == strings.ToUpper(hex) {
		return true
	}
	return Checksum(lower) == "0x"+hex
}

// Checksum renders a 40-character hex address (with or without 0x) in EIP-55
// mixed case.
func Checksum(hex string) string {
	hex = strings.ToLower(strings.TrimPrefix(hex, "0x"))

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(hex))
	digest := h.Sum(nil)

	out := []byte(hex)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}
