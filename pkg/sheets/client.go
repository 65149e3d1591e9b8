package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fazendarp/stashbot/pkg/config"
	"github.com/fazendarp/stashbot/pkg/logger"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const defaultCallTimeout = 15 * time.Second

// Client wraps the Sheets values API for a single spreadsheet. Every call
// runs under the configured timeout; the backend offers no transactions, so
// callers own any ordering or locking they need.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	callTimeout   time.Duration
}

var (
	errSpreadsheetIDRequired = errors.New("spreadsheet id is required")
	errRangeRequired         = errors.New("a1 range is required")
	errClientNotInitialized  = errors.New("sheets client not initialized")
)

type Pinger interface {
	Ping(context.Context) error
}

// NewClient creates a Sheets client and verifies the spreadsheet is reachable.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logg *logger.Logger) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errSpreadsheetIDRequired
	}

	opts := clientOptions(cfg)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	client := &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		callTimeout:   timeout,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, err
	}

	if logg != nil {
		logg.Info(ctx, "sheets client initialized")
	}

	return client, nil
}

func clientOptions(cfg config.SheetsConfig) []option.ClientOption {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	return opts
}

// Ping verifies the spreadsheet is accessible with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.svc == nil {
		return errClientNotInitialized
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return fmt.Errorf("checking spreadsheet %q: %w", c.spreadsheetID, err)
	}
	return nil
}

// Get reads an A1 range and returns its cells as strings, one slice per row.
func (c *Client) Get(ctx context.Context, a1Range string) ([][]string, error) {
	if c == nil || c.svc == nil {
		return nil, errClientNotInitialized
	}
	if strings.TrimSpace(a1Range) == "" {
		return nil, errRangeRequired
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, a1Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading range %q: %w", a1Range, err)
	}
	return asStrings(resp.Values), nil
}

// Append adds rows after the last data row of the given range. The whole
// batch lands in one call: either every row is appended or none are.
func (c *Client) Append(ctx context.Context, a1Range string, rows [][]any) error {
	if c == nil || c.svc == nil {
		return errClientNotInitialized
	}
	if strings.TrimSpace(a1Range) == "" {
		return errRangeRequired
	}
	if len(rows) == 0 {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	values := &sheets.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, a1Range, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending to range %q: %w", a1Range, err)
	}
	return nil
}

// Update overwrites the cells of the given range.
func (c *Client) Update(ctx context.Context, a1Range string, rows [][]any) error {
	if c == nil || c.svc == nil {
		return errClientNotInitialized
	}
	if strings.TrimSpace(a1Range) == "" {
		return errRangeRequired
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	values := &sheets.ValueRange{Values: rows}
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, a1Range, values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("updating range %q: %w", a1Range, err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

func asStrings(values [][]any) [][]string {
	rows := make([][]string, 0, len(values))
	for _, raw := range values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows
}
