package normalize

import (
	"fmt"
	"math"
	"strconv"
)

// SeedID is a generation seed. The host stores seeds as unsigned 64-bit
// integers and uses -1 for unset slots, so both ranges are carried exactly.
type SeedID struct {
	n        int64
	unsigned bool // n holds the bits of a value above math.MaxInt64
}

func SignedSeed(n int64) SeedID { return SeedID{n: n} }

func UnsignedSeed(u uint64) SeedID {
	if u <= math.MaxInt64 {
		return SeedID{n: int64(u)}
	}
	return SeedID{n: int64(u), unsigned: true}
}

// SeedFromBits restores a seed stored as its 64-bit pattern. Negative
// patterns read back as unsigned values.
func SeedFromBits(bits int64) SeedID { return UnsignedSeed(uint64(bits)) }

// Bits returns the 64-bit pattern used by storage columns.
func (s SeedID) Bits() int64 { return s.n }

func (s SeedID) Negative() bool { return !s.unsigned && s.n < 0 }

// IsSet reports whether the seed holds generated data: neither 0 nor -1.
func (s SeedID) IsSet() bool { return s.unsigned || (s.n != 0 && s.n != -1) }

func (s SeedID) String() string {
	if s.unsigned {
		return strconv.FormatUint(uint64(s.n), 10)
	}
	return strconv.FormatInt(s.n, 10)
}

func (s SeedID) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SeedID) UnmarshalJSON(data []byte) error {
	lit := string(data)
	if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
		*s = SignedSeed(n)
		return nil
	}
	u, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid seed %q: %w", lit, err)
	}
	*s = UnsignedSeed(u)
	return nil
}
