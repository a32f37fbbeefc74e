package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	ev := New(KindAlarm)
	ev.Unit, ev.Alarm, ev.Ticks, ev.Mistakes = "doorlock/abc", true, 60, 3
	data, err := ev.Encode()
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, ev, decoded)
	require.Equal(t, ev.Timestamp, decoded.Time().UnixNano())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "STORE_ERROR", KindStoreError.String())
	require.Equal(t, "KIND_42", Kind(42).String())
}

func TestMux(t *testing.T) {
	var got []Kind
	collect := ReportFunc(func(_ context.Context, ev *Event) error {
		got = append(got, ev.Kind)
		return nil
	})
	failure := errors.New("broker down")
	failing := ReportFunc(func(context.Context, *Event) error { return failure })

	var mux Mux
	mux.Add(collect, &Log{V: 5}, Discard)
	require.NoError(t, mux.Report(context.Background(), New(KindDoor)))
	mux.Add(failing, collect)
	require.Error(t, mux.Report(context.Background(), New(KindMistake)))
	require.Equal(t, []Kind{KindDoor, KindMistake, KindMistake}, got)
}
