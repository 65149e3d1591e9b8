// Package identity resolves Discord user ids to display names and assigned
// storage containers via the identity lookup sheet.
package identity

import (
	"context"
	"strings"

	pkgerrors "github.com/fazendarp/stashbot/pkg/errors"
)

// Unknown is the sentinel persisted when an actor has no lookup row. It is
// valid resolver output, not an error.
const Unknown = "-"

const defaultLookupRange = "usuarios!A2:C"

// Identity is a resolved actor: display name plus assigned container.
type Identity struct {
	Name        string
	ContainerID string
}

// RangeReader reads an A1 range from the spreadsheet.
type RangeReader interface {
	Get(ctx context.Context, a1Range string) ([][]string, error)
}

// Resolver looks actors up in the identity sheet. Rows carry
// (name, containerId, actorId); data starts at row 2.
type Resolver struct {
	reader      RangeReader
	lookupRange string
}

// NewResolver wires a resolver over the given sheet reader.
func NewResolver(reader RangeReader, lookupRange string) (*Resolver, error) {
	if reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "identity range reader required")
	}
	if strings.TrimSpace(lookupRange) == "" {
		lookupRange = defaultLookupRange
	}
	return &Resolver{reader: reader, lookupRange: lookupRange}, nil
}

// Resolve maps an actor id to its identity. The first matching row wins;
// duplicate actor ids in the sheet are tolerated. No match yields the
// Unknown sentinel. A failed sheet read propagates as a transport error.
func (r *Resolver) Resolve(ctx context.Context, actorID string) (Identity, error) {
	rows, err := r.reader.Get(ctx, r.lookupRange)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeTransport, err, "reading identity sheet")
	}

	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		if row[2] == actorID {
			return Identity{Name: row[0], ContainerID: row[1]}, nil
		}
	}

	return Identity{Name: Unknown, ContainerID: Unknown}, nil
}
