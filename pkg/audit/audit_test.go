package audit_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/orderdesk/pkg/audit"
	"github.com/shashiranjanraj/orderdesk/pkg/workerpool"
)

func at(s string) time.Time {
	t, err := time.ParseInLocation(audit.TimeLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEntry_StringAndParse(t *testing.T) {
	e := audit.Entry{
		Time:   at("2024-03-01 09:30:00"),
		Entity: "customer",
		Action: "create",
		Detail: "Ana Souza (id 1)",
	}

	line := e.String()
	assert.Equal(t, "2024-03-01 09:30:00 - [CUSTOMER] CREATE: Ana Souza (id 1)", line)

	back, err := audit.ParseLine(line, time.Local)
	require.NoError(t, err)
	assert.True(t, e.Time.Equal(back.Time))
	assert.Equal(t, "CUSTOMER", back.Entity)
	assert.Equal(t, "CREATE", back.Action)
	assert.Equal(t, "Ana Souza (id 1)", back.Detail)
}

func TestEntry_DetailWithColonAndNewline(t *testing.T) {
	e := audit.Entry{Time: at("2024-03-01 10:00:00"), Entity: "ORDER", Action: "CREATE", Detail: "total: 30.00\nlines: 1"}

	back, err := audit.ParseLine(e.String(), time.Local)
	require.NoError(t, err)
	assert.Equal(t, "total: 30.00 lines: 1", back.Detail)
}

func TestParseLine_Malformed(t *testing.T) {
	for _, line := range []string{"", "hello", "2024-03-01 10:00:00 CUSTOMER CREATE", "2024-13-01 10:00:00 - [X] Y: z"} {
		_, err := audit.ParseLine(line, time.Local)
		assert.ErrorIs(t, err, audit.ErrMalformedLine, line)
	}
}

func TestFileSink_HistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	sink, err := audit.NewFileSink(path)
	require.NoError(t, err)

	history, err := sink.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, sink.Write(ctx, audit.Entry{Time: at("2024-03-01 08:00:00"), Entity: "CUSTOMER", Action: "CREATE", Detail: "first"}))
	require.NoError(t, sink.Write(ctx, audit.Entry{Time: at("2024-03-01 09:00:00"), Entity: "PRODUCT", Action: "DELETE", Detail: "second"}))
	require.NoError(t, sink.Write(ctx, audit.Entry{Time: at("2024-03-01 10:00:00"), Entity: "ORDER", Action: "CREATE", Detail: "third"}))

	history, err = sink.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third", history[0].Detail)
	assert.Equal(t, "first", history[2].Detail)

	limited, err := sink.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "second", limited[1].Detail)
}

func TestFileSink_KeepsUnparseableLines(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte("written by hand\n"), 0o644))

	sink, err := audit.NewFileSink(path)
	require.NoError(t, err)

	history, err := sink.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "written by hand", history[0].Detail)
}

func TestFileSink_Clear(t *testing.T) {
	ctx := context.Background()
	sink, err := audit.NewFileSink(filepath.Join(t.TempDir(), "app.log"))
	require.NoError(t, err)

	require.NoError(t, sink.Clear(ctx), "clearing a missing file is not an error")

	require.NoError(t, sink.Write(ctx, audit.Entry{Time: time.Now(), Entity: "ORDER", Action: "CREATE"}))
	require.NoError(t, sink.Clear(ctx))

	history, err := sink.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecorder_DeliversThroughPool(t *testing.T) {
	sink := audit.NewMemorySink()
	pool := workerpool.New(1)
	rec := audit.NewRecorder(sink, pool)

	rec.Record(context.Background(), audit.EntityOrder, audit.ActionCreate, "order 1")
	rec.Record(context.Background(), audit.EntityOrder, audit.ActionCreate, "order 2")
	pool.Shutdown()

	history, err := sink.History(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "order 2", history[0].Detail)
	assert.False(t, history[0].Time.IsZero())
}

type failingSink struct{ audit.Discard }

func (failingSink) Write(context.Context, audit.Entry) error { return errors.New("disk full") }

func TestRecorder_SinkFailureIsSwallowed(t *testing.T) {
	rec := audit.NewRecorder(failingSink{}, nil)
	assert.NotPanics(t, func() {
		rec.Record(context.Background(), audit.EntityProduct, audit.ActionDelete, "Mouse")
	})

	var nilRec *audit.Recorder
	assert.NotPanics(t, func() {
		nilRec.Record(context.Background(), audit.EntityProduct, audit.ActionDelete, "Mouse")
	})
}
