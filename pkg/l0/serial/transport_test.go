package serial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransportReceive(t *testing.T) {
	tr := NewTransport(4, 4)
	require.False(t, tr.HasByte())
	require.Equal(t, NoByte, tr.NextByte())

	for _, b := range []byte{0xb5, 0x62, 0x01, 0x02} {
		tr.OnByteReceived(b)
	}
	require.Equal(t, uint32(1), tr.RxOverflow())
	require.Equal(t, 3, tr.Buffered())

	var got []byte
	for tr.HasByte() {
		got = append(got, tr.NextByte())
	}
	require.Equal(t, []byte{0xb5, 0x62, 0x01}, got)
}

func TestTransportSend(t *testing.T) {
	tr := NewTransport(4, 4)
	require.True(t, tr.IsSendQueueEmpty())
	_, ok := tr.OnTransmitReady()
	require.False(t, ok)

	require.True(t, tr.TrySend(1))
	require.True(t, tr.TrySend(2))
	require.False(t, tr.IsSendQueueEmpty())

	b, ok := tr.OnTransmitReady()
	require.True(t, ok)
	require.Equal(t, byte(1), b)
	b, ok = tr.OnTransmitReady()
	require.True(t, ok)
	require.Equal(t, byte(2), b)
	require.True(t, tr.IsSendQueueEmpty())
}

func TestTransportSendAll(t *testing.T) {
	tr := NewTransport(4, 4)
	require.NoError(t, tr.TrySendAll([]byte{1, 2}))
	require.Equal(t, ErrSendQueueFull, tr.TrySendAll([]byte{3, 4}))
	require.Zero(t, tr.TxOverflow())
	require.NoError(t, tr.TrySendAll([]byte{3}))
	require.False(t, tr.TrySend(4))
	require.Equal(t, uint32(1), tr.TxOverflow())

	var out []byte
	for {
		b, ok := tr.OnTransmitReady()
		if !ok {
			break
		}
		out = append(out, b)
	}
	require.Equal(t, []byte{1, 2, 3}, out)
}
