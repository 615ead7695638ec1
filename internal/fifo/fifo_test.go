package fifo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteRead(t *testing.T) {
	f := NewFifo(8)
	n := f.Write([]byte{1, 2, 3})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, f.GetOccupied())

	buf := make([]byte, 2)
	n = f.Read(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{1, 2}, buf)
	assert.Equal(t, 1, f.GetOccupied())
}

func TestWriteStopsAtCapacity(t *testing.T) {
	f := NewFifo(4)
	n := f.Write([]byte{1, 2, 3, 4, 5})
	assert.Equal(t, 3, n)
}

func TestAltReadDoesNotConsumeUntilFinish(t *testing.T) {
	f := NewFifo(8)
	f.Write([]byte{1, 2, 3, 4})

	skipped := f.AltBegin(2)
	assert.Equal(t, 2, skipped)

	buf := make([]byte, 2)
	n := f.AltRead(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte{3, 4}, buf)

	// Real read position untouched until AltFinish
	assert.Equal(t, 4, f.GetOccupied())
	f.AltFinish()
	assert.Equal(t, 0, f.GetOccupied())
}
