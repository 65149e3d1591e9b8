// Package pipeline drives the button, picker, quantity form and commit
// sequence for movement registration.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fazendarp/stashbot/internal/catalog"
	"github.com/fazendarp/stashbot/internal/identity"
	"github.com/fazendarp/stashbot/internal/ledger"
	"github.com/fazendarp/stashbot/internal/routing"
	"github.com/fazendarp/stashbot/internal/session"
	"github.com/fazendarp/stashbot/pkg/enums"
	pkgerrors "github.com/fazendarp/stashbot/pkg/errors"
	"github.com/fazendarp/stashbot/pkg/logger"
	"github.com/fazendarp/stashbot/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// IdentityResolver maps an actor id to a display name and container.
type IdentityResolver interface {
	Resolve(ctx context.Context, actorID string) (identity.Identity, error)
}

// LedgerStore persists movement batches and running balances.
type LedgerStore interface {
	AppendMovements(ctx context.Context, movements []ledger.Movement, sheetName string) error
	ReadBalance(ctx context.Context, itemName, inventorySheet string) (int, error)
	WriteBalance(ctx context.Context, itemName string, quantity int, inventorySheet string) error
}

// Messenger is the narrow slice of the chat gateway the commit needs: post a
// confirmation line and reset a registration channel. Both uses are
// best-effort.
type Messenger interface {
	SendText(ctx context.Context, channelID, content string) error
	ResetChannel(ctx context.Context, channelID string) error
}

// Pipeline is the interaction state machine. One instance serves every
// actor; per-actor workflow state lives in the session store.
type Pipeline struct {
	catalog   *catalog.Catalog
	routes    *routing.Table
	identity  IdentityResolver
	ledger    LedgerStore
	sessions  *session.Store
	messenger Messenger
	metrics   *metrics.PipelineMetrics
	logg      *logger.Logger
	balances  *keyLock

	now         func() time.Time
	newCommitID func() string
}

// Params carries the pipeline's dependencies.
type Params struct {
	Catalog   *catalog.Catalog
	Routes    *routing.Table
	Identity  IdentityResolver
	Ledger    LedgerStore
	Sessions  *session.Store
	Messenger Messenger
	Metrics   *metrics.PipelineMetrics
	Logger    *logger.Logger
}

// New wires the pipeline and validates its dependencies.
func New(p Params) (*Pipeline, error) {
	switch {
	case p.Catalog == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "pipeline catalog required")
	case p.Routes == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "pipeline routing table required")
	case p.Identity == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "pipeline identity resolver required")
	case p.Ledger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "pipeline ledger store required")
	case p.Sessions == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "pipeline session store required")
	case p.Messenger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "pipeline messenger required")
	case p.Logger == nil:
		return nil, pkgerrors.New(pkgerrors.CodeConfig, "pipeline logger required")
	}
	return &Pipeline{
		catalog:     p.Catalog,
		routes:      p.Routes,
		identity:    p.Identity,
		ledger:      p.Ledger,
		sessions:    p.Sessions,
		messenger:   p.Messenger,
		metrics:     p.Metrics,
		logg:        p.Logger,
		balances:    newKeyLock(),
		now:         time.Now,
		newCommitID: func() string { return uuid.NewString() },
	}, nil
}

// Picker describes the item select menu shown after a direction press.
type Picker struct {
	Direction enums.Direction
	Options   []string
	MinValues int
	MaxValues int
}

// BeginMovement starts a flow: a direction button was pressed. The picker
// offers the whole catalog, capped at the quantity form's field limit.
func (p *Pipeline) BeginMovement(direction enums.Direction) (Picker, error) {
	if !direction.IsValid() {
		return Picker{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid direction %q", direction)
	}
	return Picker{
		Direction: direction,
		Options:   p.catalog.Items(),
		MinValues: 1,
		MaxValues: p.catalog.MaxSelectable(),
	}, nil
}

// QuantityForm describes the modal collecting one quantity per picked item.
type QuantityForm struct {
	Direction enums.Direction
	Items     []string
}

// StoreSelection records what the actor picked and returns the quantity
// form. A new selection overwrites any pending one for the same actor.
func (p *Pipeline) StoreSelection(ctx context.Context, actorID, originChannelID string, direction enums.Direction, items []string) (QuantityForm, error) {
	if !direction.IsValid() {
		return QuantityForm{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid direction %q", direction)
	}
	if len(items) == 0 {
		return QuantityForm{}, pkgerrors.New(pkgerrors.CodeValidation, "no items selected")
	}
	if len(items) > p.catalog.MaxSelectable() {
		return QuantityForm{}, pkgerrors.Newf(pkgerrors.CodeValidation, "selection of %d items exceeds the limit of %d", len(items), p.catalog.MaxSelectable())
	}
	for _, item := range items {
		if !p.catalog.Contains(item) {
			return QuantityForm{}, pkgerrors.Newf(pkgerrors.CodeValidation, "item %q is not in the catalog", item)
		}
	}

	p.sessions.Put(actorID, session.Selection{
		Direction:       direction,
		OriginChannelID: originChannelID,
		Items:           append([]string(nil), items...),
	})

	p.logg.Debug(p.logg.WithActorID(ctx, actorID), "selection stored")
	return QuantityForm{Direction: direction, Items: append([]string(nil), items...)}, nil
}

// SubmitInput is a submitted quantity form: raw field text keyed by item.
type SubmitInput struct {
	ActorID         string
	OriginChannelID string
	Fields          map[string]string
}

// Result reports a finished commit. Degraded carries best-effort failures
// (confirmation post, channel reset) that did not fail the commit.
type Result struct {
	CommitID  string
	Direction enums.Direction
	Partition enums.Partition
	Movements []ledger.Movement
	Dropped   []string
	Degraded  error
}

// IsDegraded reports whether any best-effort side effect failed.
func (r *Result) IsDegraded() bool {
	return r != nil && r.Degraded != nil
}

// Outcome maps the result onto a metrics label.
func (r *Result) Outcome() string {
	if r.IsDegraded() {
		return metrics.OutcomeDegraded
	}
	return metrics.OutcomeCommitted
}

// SubmitQuantities runs the commit sequence for a submitted quantity form:
// consume the pending selection, resolve identity, validate quantities,
// route, append the ledger batch, roll the balances forward, then perform
// the best-effort confirmation and channel reset. Failures after the ledger
// append are not rolled back; the commit id in the logs is the handle for
// manual reconciliation.
func (p *Pipeline) SubmitQuantities(ctx context.Context, input SubmitInput) (*Result, error) {
	started := p.now()
	commitID := p.newCommitID()
	ctx = p.logg.WithCommitID(p.logg.WithActorID(ctx, input.ActorID), commitID)

	selection, ok := p.sessions.Take(input.ActorID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no pending selection for actor")
	}

	who, err := p.identity.Resolve(ctx, input.ActorID)
	if err != nil {
		return nil, err
	}

	movements, dropped := p.buildMovements(ctx, selection, who, input)

	route, err := p.routes.RouteFor(input.OriginChannelID, selection.Direction)
	if err != nil {
		return nil, err
	}

	if err := p.ledger.AppendMovements(ctx, movements, route.LedgerSheet); err != nil {
		p.metrics.IncCommit(string(selection.Direction), string(route.Partition), metrics.OutcomeFailed)
		return nil, err
	}

	// Balances roll forward sequentially, each item under its own lock.
	for _, m := range movements {
		if err := p.applyBalance(ctx, m, route); err != nil {
			p.metrics.IncCommit(string(selection.Direction), string(route.Partition), metrics.OutcomeFailed)
			p.logg.Error(ctx, fmt.Sprintf("balance update failed after ledger append, item %q needs manual reconciliation", m.ItemName), err)
			return nil, err
		}
	}

	result := &Result{
		CommitID:  commitID,
		Direction: selection.Direction,
		Partition: route.Partition,
		Movements: movements,
		Dropped:   dropped,
	}

	var degraded error
	for _, m := range movements {
		if err := p.messenger.SendText(ctx, route.DestinationChannelID, ConfirmationLine(m)); err != nil {
			degraded = multierr.Append(degraded, fmt.Errorf("confirmation post for %q: %w", m.ItemName, err))
			p.metrics.IncDegraded("confirmation_post")
			p.logg.Warn(ctx, fmt.Sprintf("confirmation post failed for %q: %v", m.ItemName, err))
		}
	}
	if err := p.messenger.ResetChannel(ctx, input.OriginChannelID); err != nil {
		degraded = multierr.Append(degraded, fmt.Errorf("channel reset: %w", err))
		p.metrics.IncDegraded("channel_reset")
		p.logg.Warn(ctx, fmt.Sprintf("channel reset failed: %v", err))
	}
	result.Degraded = degraded

	p.metrics.AddMovements(string(selection.Direction), string(route.Partition), len(movements))
	p.metrics.IncCommit(string(selection.Direction), string(route.Partition), result.Outcome())
	p.metrics.ObserveCommitDuration(string(selection.Direction), string(route.Partition), p.now().Sub(started))
	p.logg.Info(ctx, fmt.Sprintf("committed %d movements (%d dropped)", len(movements), len(dropped)))

	return result, nil
}

// buildMovements turns form fields into movement records, preserving the
// selection order. Fields that are missing or fail to parse as a
// non-negative integer are dropped from the batch, not treated as errors.
func (p *Pipeline) buildMovements(ctx context.Context, selection session.Selection, who identity.Identity, input SubmitInput) ([]ledger.Movement, []string) {
	timestamp := p.now()
	var movements []ledger.Movement
	var dropped []string

	for _, item := range selection.Items {
		raw, ok := input.Fields[item]
		if !ok {
			dropped = append(dropped, item)
			continue
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || quantity < 0 {
			dropped = append(dropped, item)
			p.logg.Debug(ctx, fmt.Sprintf("dropping %q: quantity %q is not a non-negative integer", item, raw))
			continue
		}
		movements = append(movements, ledger.Movement{
			Timestamp:   timestamp,
			ActorName:   who.Name,
			ActorID:     input.ActorID,
			ContainerID: who.ContainerID,
			ItemName:    item,
			Quantity:    quantity,
			Direction:   selection.Direction,
		})
	}
	return movements, dropped
}

func (p *Pipeline) applyBalance(ctx context.Context, m ledger.Movement, route routing.Resolved) error {
	unlock := p.balances.lock(string(route.Partition) + "/" + m.ItemName)
	defer unlock()

	current, err := p.ledger.ReadBalance(ctx, m.ItemName, route.InventorySheet)
	if err != nil {
		return err
	}
	next := ledger.NextBalance(current, m.Quantity, m.Direction)
	return p.ledger.WriteBalance(ctx, m.ItemName, next, route.InventorySheet)
}

// ConfirmationLine renders the fixed human-readable confirmation for one
// movement record.
func ConfirmationLine(m ledger.Movement) string {
	return fmt.Sprintf("%s | %s | ID: %s | Container: %s | %s: %d",
		m.Direction.Label(), m.ActorName, m.ActorID, m.ContainerID, m.ItemName, m.Quantity)
}
