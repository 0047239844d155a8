// Package dns manages the home-lab private DNS zone and its records.
package dns

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/privatedns/armprivatedns"
	"github.com/rs/zerolog"

	"github.com/JustAGhosT/home-lab-setup-sub006/azure"
)

// DefaultTTL is applied when a record is set without an explicit TTL.
const DefaultTTL int64 = 3600

// RecordType is the subset of DNS record types the toolkit manages.
type RecordType string

const (
	TypeA     RecordType = "A"
	TypeCNAME RecordType = "CNAME"
	TypeTXT   RecordType = "TXT"
)

// ParseRecordType validates a record type name.
func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(s) {
	case TypeA, TypeCNAME, TypeTXT:
		return RecordType(s), nil
	}
	return "", fmt.Errorf("unsupported record type %q (want A, CNAME or TXT)", s)
}

func (t RecordType) arm() armprivatedns.RecordType {
	switch t {
	case TypeA:
		return armprivatedns.RecordTypeA
	case TypeCNAME:
		return armprivatedns.RecordTypeCNAME
	default:
		return armprivatedns.RecordTypeTXT
	}
}

// Record is one DNS record as reported by ListRecords.
type Record struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
	TTL   int64  `json:"ttl"`
}

// Manager performs record CRUD against one private DNS zone.
type Manager struct {
	zones   *armprivatedns.PrivateZonesClient
	records *armprivatedns.RecordSetsClient
	rg      string
	logger  zerolog.Logger
}

// NewManager creates a manager scoped to one resource group.
func NewManager(clients *azure.Clients, resourceGroup string, logger zerolog.Logger) *Manager {
	return &Manager{
		zones:   clients.Zones,
		records: clients.RecordSets,
		rg:      resourceGroup,
		logger:  logger,
	}
}

// EnsureZone creates the private zone if it does not exist and waits for it.
func (m *Manager) EnsureZone(ctx context.Context, zone string) error {
	poller, err := m.zones.BeginCreateOrUpdate(ctx, m.rg, zone, armprivatedns.PrivateZone{
		Location: ptr("global"),
	}, nil)
	if err != nil {
		return fmt.Errorf("ensure zone %s: %w", zone, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("ensure zone %s: %w", zone, err)
	}
	m.logger.Info().Str("zone", zone).Msg("zone ensured")
	return nil
}

// SetRecord creates or replaces one record. A ttl of 0 means DefaultTTL.
func (m *Manager) SetRecord(ctx context.Context, zone, name string, recordType RecordType, value string, ttl int64) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	props := &armprivatedns.RecordSetProperties{TTL: ptr(ttl)}
	switch recordType {
	case TypeA:
		props.ARecords = []*armprivatedns.ARecord{{IPv4Address: ptr(value)}}
	case TypeCNAME:
		props.CnameRecord = &armprivatedns.CnameRecord{Cname: ptr(value)}
	case TypeTXT:
		props.TxtRecords = []*armprivatedns.TxtRecord{{Value: []*string{ptr(value)}}}
	default:
		return fmt.Errorf("unsupported record type %q", recordType)
	}

	_, err := m.records.CreateOrUpdate(ctx, m.rg, zone, recordType.arm(), name, armprivatedns.RecordSet{
		Properties: props,
	}, nil)
	if err != nil {
		return fmt.Errorf("set %s record %s.%s: %w", recordType, name, zone, err)
	}
	m.logger.Info().Str("zone", zone).Str("name", name).Str("type", string(recordType)).Msg("record set")
	return nil
}

// DeleteRecord removes one record set.
func (m *Manager) DeleteRecord(ctx context.Context, zone, name string, recordType RecordType) error {
	_, err := m.records.Delete(ctx, m.rg, zone, recordType.arm(), name, nil)
	if err != nil {
		return fmt.Errorf("delete %s record %s.%s: %w", recordType, name, zone, err)
	}
	m.logger.Info().Str("zone", zone).Str("name", name).Str("type", string(recordType)).Msg("record deleted")
	return nil
}

// ListRecords enumerates all record sets in the zone.
func (m *Manager) ListRecords(ctx context.Context, zone string) ([]Record, error) {
	var records []Record
	pager := m.records.NewListPager(m.rg, zone, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list records in %s: %w", zone, err)
		}
		for _, rs := range page.Value {
			records = append(records, flatten(rs)...)
		}
	}
	return records, nil
}

// flatten converts one ARM record set into flat display records.
func flatten(rs *armprivatedns.RecordSet) []Record {
	if rs == nil || rs.Properties == nil {
		return nil
	}
	name := deref(rs.Name)
	var ttl int64
	if rs.Properties.TTL != nil {
		ttl = *rs.Properties.TTL
	}

	var out []Record
	for _, a := range rs.Properties.ARecords {
		if a != nil {
			out = append(out, Record{Name: name, Type: string(TypeA), Value: deref(a.IPv4Address), TTL: ttl})
		}
	}
	if rs.Properties.CnameRecord != nil {
		out = append(out, Record{Name: name, Type: string(TypeCNAME), Value: deref(rs.Properties.CnameRecord.Cname), TTL: ttl})
	}
	for _, t := range rs.Properties.TxtRecords {
		if t != nil && len(t.Value) > 0 {
			out = append(out, Record{Name: name, Type: string(TypeTXT), Value: deref(t.Value[0]), TTL: ttl})
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr[T any](v T) *T { return &v }
