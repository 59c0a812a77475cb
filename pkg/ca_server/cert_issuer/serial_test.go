package cert_issuer_test

import (
	"math/big"
	"sync"
	"testing"

	"github.com/openebl/leafca/pkg/ca_server/cert_issuer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomSerial(t *testing.T) {
	allocator, err := cert_issuer.NewSerialAllocator(cert_issuer.SerialPolicyRandom)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		serial, err := allocator.NextSerial()
		require.NoError(t, err)
		assert.Equal(t, 1, serial.Sign())
		assert.LessOrEqual(t, serial.BitLen(), 159)
		assert.LessOrEqual(t, len(serial.Bytes()), 20)
		assert.False(t, seen[serial.String()])
		seen[serial.String()] = true
	}
}

func TestSequentialSerial(t *testing.T) {
	allocator := cert_issuer.NewSequentialSerial(100)

	const workers = 8
	const perWorker = 50
	serials := make(chan *big.Int, workers*perWorker)
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				serial, err := allocator.NextSerial()
				assert.NoError(t, err)
				serials <- serial
			}
		}()
	}
	wg.Wait()
	close(serials)

	seen := make(map[int64]bool)
	for serial := range serials {
		assert.Greater(t, serial.Int64(), int64(100))
		assert.LessOrEqual(t, serial.Int64(), int64(100+workers*perWorker))
		assert.False(t, seen[serial.Int64()])
		seen[serial.Int64()] = true
	}
	assert.Len(t, seen, workers*perWorker)
}

func TestNewSerialAllocator(t *testing.T) {
	allocator, err := cert_issuer.NewSerialAllocator("")
	require.NoError(t, err)
	assert.IsType(t, cert_issuer.RandomSerial{}, allocator)

	allocator, err = cert_issuer.NewSerialAllocator(cert_issuer.SerialPolicySequential)
	require.NoError(t, err)
	assert.IsType(t, &cert_issuer.SequentialSerial{}, allocator)

	_, err = cert_issuer.NewSerialAllocator("constant")
	assert.Error(t, err)
}
