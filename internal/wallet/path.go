package wallet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tyler-smith/go-bip32"
)

// BIP-44 derivation path constants.
// Full path: m/44'/CoinType'/account'/change/index
const (
	// PurposeBIP44 is the BIP-44 purpose field (hardened).
	PurposeBIP44 = bip32.FirstHardenedChild + 44

	// CoinTypeKlingnet is the Klingnet coin type (hardened).
	CoinTypeKlingnet = bip32.FirstHardenedChild + 8888

	// ChangeExternal is for receiving keys.
	ChangeExternal = 0

	// ChangeInternal is for change keys.
	ChangeInternal = 1
)

// DefaultPath is the first external key of the first Klingnet account.
const DefaultPath = "m/44'/8888'/0'/0/0"

var (
	ErrMissingPath   = errors.New("missing derivation path")
	ErrMalformedPath = errors.New("malformed derivation path")
)

// Path is a BIP-32 derivation path. Hardened components carry
// bip32.FirstHardenedChild.
type Path []uint32

// AccountPath returns m/44'/8888'/account'/change/index.
func AccountPath(account, change, index uint32) Path {
	return Path{
		PurposeBIP44,
		CoinTypeKlingnet,
		bip32.FirstHardenedChild + account,
		change,
		index,
	}
}

// ParsePath parses paths such as "m/44'/8888'/0'/0/0". The leading "m" is
// required; "h" and "H" are accepted as hardened markers besides "'".
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrMissingPath
	}

	elems := strings.Split(s, "/")
	if elems[0] != "m" {
		return nil, fmt.Errorf("%w: must start with m", ErrMalformedPath)
	}

	path := make(Path, 0, len(elems)-1)
	for _, elem := range elems[1:] {
		elem = strings.TrimSpace(elem)
		if elem == "" {
			return nil, fmt.Errorf("%w: empty component", ErrMalformedPath)
		}

		var offset uint32
		if last := elem[len(elem)-1]; last == '\'' || last == 'h' || last == 'H' {
			offset = bip32.FirstHardenedChild
			elem = elem[:len(elem)-1]
		}

		v, err := strconv.ParseUint(elem, 10, 32)
		if err != nil || uint32(v) >= bip32.FirstHardenedChild {
			return nil, fmt.Errorf("%w: invalid component %q", ErrMalformedPath, elem)
		}
		path = append(path, offset+uint32(v))
	}
	return path, nil
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, c := range p {
		if c >= bip32.FirstHardenedChild {
			fmt.Fprintf(&b, "/%d'", c-bip32.FirstHardenedChild)
		} else {
			fmt.Fprintf(&b, "/%d", c)
		}
	}
	return b.String()
}
