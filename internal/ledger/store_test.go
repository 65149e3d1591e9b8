package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fazendarp/stashbot/pkg/enums"
	pkgerrors "github.com/fazendarp/stashbot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValues struct {
	rows   [][]string
	getErr error

	appendRange string
	appendRows  [][]any
	appendErr   error

	updateRange string
	updateRows  [][]any
	updateErr   error
}

func (f *fakeValues) Get(_ context.Context, a1Range string) ([][]string, error) {
	return f.rows, f.getErr
}

func (f *fakeValues) Append(_ context.Context, a1Range string, rows [][]any) error {
	f.appendRange = a1Range
	f.appendRows = rows
	return f.appendErr
}

func (f *fakeValues) Update(_ context.Context, a1Range string, rows [][]any) error {
	f.updateRange = a1Range
	f.updateRows = rows
	return f.updateErr
}

func movement(item string, qty int) Movement {
	return Movement{
		Timestamp:   time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC),
		ActorName:   "Ana",
		ActorID:     "U1",
		ContainerID: "12",
		ItemName:    item,
		Quantity:    qty,
		Direction:   enums.DirectionIn,
	}
}

func TestAppendMovementsPreservesOrder(t *testing.T) {
	values := &fakeValues{}
	store, err := NewStore(values)
	require.NoError(t, err)

	batch := []Movement{movement("Ak47", 3), movement("Bandagem", 7), movement("Uzi", 1)}
	require.NoError(t, store.AppendMovements(context.Background(), batch, "registro_entrada_membro"))

	assert.Equal(t, "registro_entrada_membro!A1", values.appendRange)
	require.Len(t, values.appendRows, 3)
	assert.Equal(t, "Ak47", values.appendRows[0][4])
	assert.Equal(t, "Bandagem", values.appendRows[1][4])
	assert.Equal(t, "Uzi", values.appendRows[2][4])

	first := values.appendRows[0]
	require.Len(t, first, 6)
	assert.Equal(t, "31/08/2026 14:30:00", first[0])
	assert.Equal(t, "Ana", first[1])
	assert.Equal(t, "U1", first[2])
	assert.Equal(t, "12", first[3])
	assert.Equal(t, 3, first[5])
}

func TestAppendMovementsEmptyBatchIsNoop(t *testing.T) {
	values := &fakeValues{}
	store, err := NewStore(values)
	require.NoError(t, err)

	require.NoError(t, store.AppendMovements(context.Background(), nil, "registro_entrada_membro"))
	assert.Empty(t, values.appendRange)
}

func TestAppendMovementsRejectsInvalidRecords(t *testing.T) {
	store, err := NewStore(&fakeValues{})
	require.NoError(t, err)

	bad := movement("Ak47", -1)
	err = store.AppendMovements(context.Background(), []Movement{bad}, "registro_entrada_membro")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))

	empty := movement("", 2)
	err = store.AppendMovements(context.Background(), []Movement{empty}, "registro_entrada_membro")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestAppendMovementsWrapsTransportFailure(t *testing.T) {
	values := &fakeValues{appendErr: errors.New("503")}
	store, err := NewStore(values)
	require.NoError(t, err)

	err = store.AppendMovements(context.Background(), []Movement{movement("Ak47", 3)}, "registro_entrada_membro")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeTransport))
}

func TestReadBalance(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		item string
		want int
	}{
		{name: "present", rows: [][]string{{"Ak47", "5"}}, item: "Ak47", want: 5},
		{name: "absent", rows: [][]string{{"Ak47", "5"}}, item: "Uzi", want: 0},
		{name: "empty sheet", rows: nil, item: "Ak47", want: 0},
		{name: "non numeric cell", rows: [][]string{{"Ak47", "muitos"}}, item: "Ak47", want: 0},
		{name: "missing quantity cell", rows: [][]string{{"Ak47"}}, item: "Ak47", want: 0},
		{name: "exact match only", rows: [][]string{{"ak47", "5"}}, item: "Ak47", want: 0},
		{name: "padded cell", rows: [][]string{{"Ak47", " 7 "}}, item: "Ak47", want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewStore(&fakeValues{rows: tt.rows})
			require.NoError(t, err)

			got, err := store.ReadBalance(context.Background(), tt.item, "inventario_membro")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadBalancePropagatesTransportFailure(t *testing.T) {
	store, err := NewStore(&fakeValues{getErr: errors.New("timeout")})
	require.NoError(t, err)

	_, err = store.ReadBalance(context.Background(), "Ak47", "inventario_membro")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeTransport))
}

func TestWriteBalanceAppendsNewItem(t *testing.T) {
	values := &fakeValues{rows: [][]string{{"Uzi", "2"}}}
	store, err := NewStore(values)
	require.NoError(t, err)

	require.NoError(t, store.WriteBalance(context.Background(), "Ak47", 5, "inventario_membro"))

	assert.Equal(t, "inventario_membro!A2:B", values.appendRange)
	require.Len(t, values.appendRows, 1)
	assert.Equal(t, []any{"Ak47", 5}, values.appendRows[0])
	assert.Empty(t, values.updateRange)
}

func TestWriteBalanceUpdatesExistingRow(t *testing.T) {
	values := &fakeValues{rows: [][]string{
		{"Uzi", "2"},
		{"Ak47", "5"},
		{"Bandagem", "1"},
	}}
	store, err := NewStore(values)
	require.NoError(t, err)

	require.NoError(t, store.WriteBalance(context.Background(), "Ak47", 8, "inventario_membro"))

	assert.Equal(t, "inventario_membro!B3", values.updateRange)
	require.Len(t, values.updateRows, 1)
	assert.Equal(t, []any{8}, values.updateRows[0])
	assert.Empty(t, values.appendRange)
}

func TestNextBalance(t *testing.T) {
	tests := []struct {
		current   int
		quantity  int
		direction enums.Direction
		want      int
	}{
		{current: 2, quantity: 3, direction: enums.DirectionIn, want: 5},
		{current: 0, quantity: 4, direction: enums.DirectionIn, want: 4},
		{current: 10, quantity: 4, direction: enums.DirectionOut, want: 6},
		{current: 4, quantity: 10, direction: enums.DirectionOut, want: 0},
		{current: 0, quantity: 1, direction: enums.DirectionOut, want: 0},
	}
	for _, tt := range tests {
		got := NextBalance(tt.current, tt.quantity, tt.direction)
		if got != tt.want {
			t.Fatalf("NextBalance(%d, %d, %s) = %d, want %d", tt.current, tt.quantity, tt.direction, got, tt.want)
		}
	}
}
