// Package azure bundles the SDK clients the toolkit talks to: network
// resources, private DNS, storage accounts, and Log Analytics.
package azure

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v7"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/privatedns/armprivatedns"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
)

type fakeCredential struct{}

func (f *fakeCredential) GetToken(_ context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "fake-token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// Clients holds all Azure SDK clients used by the toolkit.
type Clients struct {
	Credential azcore.TokenCredential

	VirtualNetworks *armnetwork.VirtualNetworksClient
	VPNGateways     *armnetwork.VirtualNetworkGatewaysClient
	NATGateways     *armnetwork.NatGatewaysClient
	PublicIPs       *armnetwork.PublicIPAddressesClient

	Zones      *armprivatedns.PrivateZonesClient
	RecordSets *armprivatedns.RecordSetsClient

	Accounts *armstorage.AccountsClient

	Logs *azquery.LogsClient
}

// NewClients initializes the SDK client bundle. When endpointURL is set the
// clients target a local ARM simulator with a fake credential instead of the
// public cloud.
func NewClients(subscriptionID string, endpointURL string) (*Clients, error) {
	if endpointURL != "" {
		return newClientsWithEndpoint(subscriptionID, endpointURL)
	}
	return newClientsDefault(subscriptionID)
}

func newClientsWithEndpoint(subscriptionID string, endpointURL string) (*Clients, error) {
	cred := &fakeCredential{}
	opts := &arm.ClientOptions{
		ClientOptions: azcore.ClientOptions{
			Cloud: cloud.Configuration{
				Services: map[cloud.ServiceName]cloud.ServiceConfiguration{
					cloud.ResourceManager: {
						Endpoint: endpointURL,
						Audience: "https://management.azure.com/",
					},
					azquery.ServiceNameLogs: {
						Endpoint: endpointURL,
						Audience: "https://api.loganalytics.io/",
					},
				},
			},
			InsecureAllowCredentialWithHTTP: true,
		},
	}
	return buildClients(subscriptionID, cred, opts)
}

func newClientsDefault(subscriptionID string) (*Clients, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return buildClients(subscriptionID, cred, nil)
}

func buildClients(subscriptionID string, cred azcore.TokenCredential, opts *arm.ClientOptions) (*Clients, error) {
	vnets, err := armnetwork.NewVirtualNetworksClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	vpnGateways, err := armnetwork.NewVirtualNetworkGatewaysClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	natGateways, err := armnetwork.NewNatGatewaysClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	publicIPs, err := armnetwork.NewPublicIPAddressesClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	zones, err := armprivatedns.NewPrivateZonesClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	recordSets, err := armprivatedns.NewRecordSetsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}
	accounts, err := armstorage.NewAccountsClient(subscriptionID, cred, opts)
	if err != nil {
		return nil, err
	}

	var logsOpts *azquery.LogsClientOptions
	if opts != nil {
		logsOpts = &azquery.LogsClientOptions{ClientOptions: opts.ClientOptions}
	}
	logs, err := azquery.NewLogsClient(cred, logsOpts)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Credential:      cred,
		VirtualNetworks: vnets,
		VPNGateways:     vpnGateways,
		NATGateways:     natGateways,
		PublicIPs:       publicIPs,
		Zones:           zones,
		RecordSets:      recordSets,
		Accounts:        accounts,
		Logs:            logs,
	}, nil
}

func ptr[T any](v T) *T { return &v }
