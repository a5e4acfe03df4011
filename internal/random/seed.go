package random

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SeedDigits is the number of hex digits carried by a seed token.
const SeedDigits = 64

// ErrInvalidSeed reports a token that is not a 256-bit hex digest.
var ErrInvalidSeed = errors.New("invalid seed")

// Seed is a 256-bit hex digest. The first half seeds generator A and the
// second half seeds generator B.
type Seed struct {
	digits string
}

// ZeroSeed is the all-zero digest.
var ZeroSeed = Seed{digits: strings.Repeat("0", SeedDigits)}

// ParseSeed accepts a digest with or without the 0x prefix.
func ParseSeed(token string) (Seed, error) {
	s := strings.TrimSpace(token)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s) != SeedDigits {
		return Seed{}, fmt.Errorf("%w: want %d hex digits, got %d", ErrInvalidSeed, SeedDigits, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return Seed{}, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return Seed{digits: strings.ToLower(s)}, nil
}

// NewSeed draws a fresh digest from src. A nil src uses crypto/rand.
func NewSeed(src io.Reader) (Seed, error) {
	if src == nil {
		src = rand.Reader
	}
	var buf [SeedDigits / 2]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return Seed{}, fmt.Errorf("read seed entropy: %w", err)
	}
	return Seed{digits: hex.EncodeToString(buf[:])}, nil
}

// String returns the canonical 0x-prefixed form.
func (s Seed) String() string {
	if s.digits == "" {
		return ZeroSeed.String()
	}
	return "0x" + s.digits
}

// IsZero reports whether the seed was never set.
func (s Seed) IsZero() bool {
	return s.digits == ""
}

// halves splits the digest into the two 128-bit generator states.
func (s Seed) halves() (a, b [4]uint32) {
	digits := s.digits
	if digits == "" {
		digits = ZeroSeed.digits
	}
	return words(digits[:32]), words(digits[32:])
}

func words(hex128 string) [4]uint32 {
	var out [4]uint32
	for i := range out {
		v, err := strconv.ParseUint(hex128[i*8:i*8+8], 16, 32)
		if err != nil {
			// digits are validated on construction
			panic(fmt.Sprintf("random: malformed seed digits %q", hex128))
		}
		out[i] = uint32(v)
	}
	return out
}
