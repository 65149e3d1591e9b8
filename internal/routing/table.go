// Package routing maps registration channels to ledger sheets, inventory
// partitions and confirmation channels.
package routing

import (
	"strings"

	"github.com/fazendarp/stashbot/pkg/config"
	"github.com/fazendarp/stashbot/pkg/enums"
	pkgerrors "github.com/fazendarp/stashbot/pkg/errors"
)

// Route is one registration channel's static configuration.
type Route struct {
	OriginChannelID       string
	Partition             enums.Partition
	InDestinationChannel  string
	OutDestinationChannel string
}

// Resolved is the routing answer for one origin channel and direction.
type Resolved struct {
	LedgerSheet          string
	InventorySheet       string
	Partition            enums.Partition
	DestinationChannelID string
}

// Table holds every configured route, immutable after construction.
type Table struct {
	byOrigin map[string]Route
}

// NewTable builds the routing table from channel configuration.
func NewTable(cfg config.RoutesConfig) (*Table, error) {
	routes := []Route{
		{
			OriginChannelID:       cfg.MemberRegistrationChannel,
			Partition:             enums.PartitionMember,
			InDestinationChannel:  cfg.MemberInChannel,
			OutDestinationChannel: cfg.MemberOutChannel,
		},
	}
	if cfg.HasManagement() {
		routes = append(routes, Route{
			OriginChannelID:       cfg.ManagementRegistrationChannel,
			Partition:             enums.PartitionManagement,
			InDestinationChannel:  cfg.ManagementInChannel,
			OutDestinationChannel: cfg.ManagementOutChannel,
		})
	}

	byOrigin := make(map[string]Route, len(routes))
	for _, route := range routes {
		if strings.TrimSpace(route.OriginChannelID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeConfig, "route origin channel id is empty")
		}
		if _, dup := byOrigin[route.OriginChannelID]; dup {
			return nil, pkgerrors.Newf(pkgerrors.CodeConfig, "origin channel %s routed twice", route.OriginChannelID)
		}
		byOrigin[route.OriginChannelID] = route
	}

	return &Table{byOrigin: byOrigin}, nil
}

// RouteFor resolves the ledger sheet, inventory partition and destination
// channel for an origin channel and direction. An unrecognized origin yields
// a config error and the caller must perform no persistence.
func (t *Table) RouteFor(originChannelID string, direction enums.Direction) (Resolved, error) {
	if !direction.IsValid() {
		return Resolved{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid direction %q", direction)
	}
	route, ok := t.byOrigin[originChannelID]
	if !ok {
		return Resolved{}, pkgerrors.Newf(pkgerrors.CodeConfig, "origin channel %s is not routed", originChannelID)
	}

	destination := route.InDestinationChannel
	if direction == enums.DirectionOut {
		destination = route.OutDestinationChannel
	}

	return Resolved{
		LedgerSheet:          route.Partition.LedgerSheet(direction),
		InventorySheet:       route.Partition.InventorySheet(),
		Partition:            route.Partition,
		DestinationChannelID: destination,
	}, nil
}

// Origins lists every registration channel, used for the startup button post.
func (t *Table) Origins() []string {
	origins := make([]string, 0, len(t.byOrigin))
	for origin := range t.byOrigin {
		origins = append(origins, origin)
	}
	return origins
}
