// Package diag pulls VPN gateway diagnostic events from a Log Analytics
// workspace.
package diag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	"github.com/rs/zerolog"
)

// Row is one diagnostic event.
type Row struct {
	Time     string `json:"time"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Client queries gateway diagnostics.
type Client struct {
	logs   *azquery.LogsClient
	logger zerolog.Logger
}

// NewClient wraps an azquery logs client.
func NewClient(logs *azquery.LogsClient, logger zerolog.Logger) *Client {
	return &Client{logs: logs, logger: logger}
}

// GatewayLogs returns the most recent diagnostic rows for a VPN gateway,
// newest first, limited to the given window.
func (c *Client) GatewayLogs(ctx context.Context, workspaceID, gateway string, since time.Duration) ([]Row, error) {
	query := fmt.Sprintf(
		`AzureDiagnostics | where ResourceType == "VIRTUALNETWORKGATEWAYS" and Resource == "%s"`+
			` | project TimeGenerated, Category, Message | order by TimeGenerated desc | take 100`,
		strings.ToUpper(gateway),
	)

	end := time.Now().UTC()
	start := end.Add(-since)
	resp, err := c.logs.QueryWorkspace(ctx, workspaceID, azquery.Body{
		Query:    &query,
		Timespan: ptr(azquery.NewTimeInterval(start, end)),
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("query gateway diagnostics: %w", err)
	}

	var rows []Row
	for _, table := range resp.Tables {
		timeIdx, catIdx, msgIdx := -1, -1, -1
		for i, col := range table.Columns {
			if col.Name == nil {
				continue
			}
			switch *col.Name {
			case "TimeGenerated":
				timeIdx = i
			case "Category":
				catIdx = i
			case "Message":
				msgIdx = i
			}
		}

		for _, row := range table.Rows {
			r := Row{
				Time:     cell(row, timeIdx),
				Category: cell(row, catIdx),
				Message:  cell(row, msgIdx),
			}
			if r.Message == "" && r.Category == "" {
				continue
			}
			rows = append(rows, r)
		}
	}

	c.logger.Debug().Str("gateway", gateway).Int("rows", len(rows)).Msg("diagnostics fetched")
	return rows, nil
}

func cell(row azquery.Row, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	s, _ := row[idx].(string)
	return s
}

func ptr[T any](v T) *T { return &v }
