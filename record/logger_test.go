package record

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	SetLogger(nil)
	require.NotNil(t, Logger())
}

func TestSetLoggerWhileDecoding(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })
	core, logs := observer.New(zap.DebugLevel)

	c := New(Options{})
	data, err := c.Encode(Mixed{Val: "x"})
	require.NoError(t, err)
	frame, err := Compress(data)
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		SetLogger(zap.New(core))
		return nil
	})
	for range 4 {
		g.Go(func() error {
			b, err := OpenCompressed[Mixed](c, frame)
			if err != nil {
				return err
			}
			_, err = b.IntoInner()
			return err
		})
	}
	require.NoError(t, g.Wait())

	SetLogger(zap.New(core))
	b, err := OpenCompressed[Mixed](c, frame)
	require.NoError(t, err)
	require.NoError(t, b.Close())
	require.NotZero(t, logs.FilterMessage("record: decompressed").Len())
}
