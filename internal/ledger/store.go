// Package ledger adapts the spreadsheet backend into an append-only movement
// log plus per-item running balances.
package ledger

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fazendarp/stashbot/pkg/enums"
	pkgerrors "github.com/fazendarp/stashbot/pkg/errors"
)

// TimestampLayout renders movement timestamps the way the ledger sheet
// expects them: day first, pt-BR order.
const TimestampLayout = "02/01/2006 15:04:05"

// Movement is one inventory transaction line. Persisted rows are never
// mutated or deleted.
type Movement struct {
	Timestamp   time.Time
	ActorName   string
	ActorID     string
	ContainerID string
	ItemName    string
	Quantity    int
	Direction   enums.Direction
}

func (m Movement) row() []any {
	return []any{
		m.Timestamp.Format(TimestampLayout),
		m.ActorName,
		m.ActorID,
		m.ContainerID,
		m.ItemName,
		m.Quantity,
	}
}

// Values is the slice of the spreadsheet API the store needs.
type Values interface {
	Get(ctx context.Context, a1Range string) ([][]string, error)
	Append(ctx context.Context, a1Range string, rows [][]any) error
	Update(ctx context.Context, a1Range string, rows [][]any) error
}

// Store reads and writes the ledger and inventory sheets.
type Store struct {
	values Values
}

// NewStore wires a ledger store over the given spreadsheet values API.
func NewStore(values Values) (*Store, error) {
	if values == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "ledger values api required")
	}
	return &Store{values: values}, nil
}

// AppendMovements serializes each record to a six column row and appends the
// whole batch in input order. The append is all-or-nothing at the transport
// level: a partial-batch failure surfaces as one error covering the batch.
func (s *Store) AppendMovements(ctx context.Context, movements []Movement, sheetName string) error {
	if strings.TrimSpace(sheetName) == "" {
		return pkgerrors.New(pkgerrors.CodeConfig, "ledger sheet name is empty")
	}
	if len(movements) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(movements))
	for _, m := range movements {
		if m.Quantity < 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "movement for %q has negative quantity %d", m.ItemName, m.Quantity)
		}
		if strings.TrimSpace(m.ItemName) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "movement has empty item name")
		}
		rows = append(rows, m.row())
	}

	if err := s.values.Append(ctx, sheetName+"!A1", rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "appending movements")
	}
	return nil
}

// ReadBalance scans the inventory sheet for an exact item name match and
// returns its quantity, or 0 when the item is absent or its cell does not
// parse. The whole balance range is read on every query; fine at tens of
// items.
func (s *Store) ReadBalance(ctx context.Context, itemName, inventorySheet string) (int, error) {
	rows, err := s.readInventory(ctx, inventorySheet)
	if err != nil {
		return 0, err
	}

	for _, row := range rows {
		if len(row) == 0 || row[0] != itemName {
			continue
		}
		if len(row) < 2 {
			return 0, nil
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return 0, nil
		}
		return quantity, nil
	}
	return 0, nil
}

// WriteBalance stores the new quantity for an item. Absent items get a new
// (item, quantity) row appended; present items have only their quantity cell
// overwritten. The row offset is recomputed from a fresh read immediately
// before the write, which is the only defense against concurrent external
// edits to the sheet.
func (s *Store) WriteBalance(ctx context.Context, itemName string, quantity int, inventorySheet string) error {
	rows, err := s.readInventory(ctx, inventorySheet)
	if err != nil {
		return err
	}

	rowIndex := -1
	for i, row := range rows {
		if len(row) > 0 && row[0] == itemName {
			rowIndex = i
			break
		}
	}

	if rowIndex == -1 {
		err := s.values.Append(ctx, inventorySheet+"!A2:B", [][]any{{itemName, quantity}})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "appending balance row")
		}
		return nil
	}

	// Data starts at row 2, so the sheet row is the scan index plus two.
	cell := fmt.Sprintf("%s!B%d", inventorySheet, rowIndex+2)
	if err := s.values.Update(ctx, cell, [][]any{{quantity}}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "updating balance cell")
	}
	return nil
}

func (s *Store) readInventory(ctx context.Context, inventorySheet string) ([][]string, error) {
	if strings.TrimSpace(inventorySheet) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "inventory sheet name is empty")
	}
	rows, err := s.values.Get(ctx, inventorySheet+"!A2:B")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "reading inventory sheet")
	}
	return rows, nil
}

// NextBalance computes the balance after applying a movement. Outgoing
// movements clamp at zero; balances never go negative.
func NextBalance(current, quantity int, direction enums.Direction) int {
	if direction == enums.DirectionIn {
		return current + quantity
	}
	next := current - quantity
	if next < 0 {
		return 0
	}
	return next
}
