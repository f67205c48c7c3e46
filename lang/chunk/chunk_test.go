package chunk_test

import (
	"testing"

	"github.com/mna/bang/lang/chunk"
	"github.com/stretchr/testify/require"
)

func TestWriteAndVerify(t *testing.T) {
	c := chunk.New()
	idx := c.AddConstant(chunk.Number(1))
	c.WriteOp(chunk.OpConstant, 1)
	c.WriteU8(byte(idx), 1)
	c.WriteOp(chunk.OpReturn, 1)

	require.NoError(t, c.Verify())
	require.Equal(t, 1, c.LineAt(0))
}

func TestVerifyRejectsBadConstantIndex(t *testing.T) {
	c := chunk.New()
	c.WriteOp(chunk.OpConstant, 1)
	c.WriteU8(5, 1)

	err := c.Verify()
	require.Error(t, err)
}

func TestVerifyRejectsOutOfRangeJump(t *testing.T) {
	c := chunk.New()
	pos := c.WriteOp(chunk.OpJump, 1)
	c.WriteU16(9999, 1)
	_ = pos

	err := c.Verify()
	require.Error(t, err)
}

func TestPatchU16RoundTrips(t *testing.T) {
	c := chunk.New()
	pos := c.WriteOp(chunk.OpJump, 1)
	c.WriteU16(0, 1)
	c.WriteOp(chunk.OpNull, 1)
	c.PatchU16(pos+1, uint16(len(c.Code)-(pos+3)))

	require.Equal(t, uint16(1), c.ReadU16(pos+1))
	require.NoError(t, c.Verify())
}

func TestIndexRounding(t *testing.T) {
	require.Equal(t, 2, chunk.Index(1.7, 5))
	require.Equal(t, 4, chunk.Index(-1, 5))
	require.Equal(t, 5, chunk.Index(100, 5))
}

func TestValueEqualityAndDisplay(t *testing.T) {
	require.True(t, chunk.Number(1).Equal(chunk.Number(1)))
	require.False(t, chunk.Number(1).Equal(chunk.Bool(true)))
	require.Equal(t, "null", chunk.Null.Display())
	require.Equal(t, "1", chunk.Number(1).Display())
	require.Equal(t, "1.5", chunk.Number(1.5).Display())
}
