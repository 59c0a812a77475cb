package cert_issuer

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"
)

type SerialPolicy string

const (
	SerialPolicyRandom     SerialPolicy = "random"
	SerialPolicySequential SerialPolicy = "sequential"
)

// RFC 5280 limits serial numbers to 20 octets. 159 bits keeps the DER
// INTEGER positive without a padding byte.
const randomSerialBits = 159

type SerialAllocator interface {
	NextSerial() (*big.Int, error)
}

func NewSerialAllocator(policy SerialPolicy) (SerialAllocator, error) {
	switch policy {
	case SerialPolicyRandom, "":
		return RandomSerial{}, nil
	case SerialPolicySequential:
		return NewSequentialSerial(time.Now().UnixNano()), nil
	}
	return nil, fmt.Errorf("unknown serial policy %q", policy)
}

type RandomSerial struct{}

func (RandomSerial) NextSerial() (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), randomSerialBits)
	for {
		serial, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return nil, err
		}
		if serial.Sign() > 0 {
			return serial, nil
		}
	}
}

// SequentialSerial hands out increasing serials starting after seed.
// Seeding from the start-up time keeps restarts from reusing serials as long as
// fewer than one certificate per nanosecond of downtime was issued.
type SequentialSerial struct {
	last atomic.Int64
}

func NewSequentialSerial(seed int64) *SequentialSerial {
	s := &SequentialSerial{}
	s.last.Store(seed)
	return s
}

func (s *SequentialSerial) NextSerial() (*big.Int, error) {
	next := s.last.Add(1)
	if next <= 0 {
		return nil, fmt.Errorf("serial counter exhausted")
	}
	return big.NewInt(next), nil
}
