package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v7"
)

// NetworkSpec describes the home-lab virtual network.
type NetworkSpec struct {
	Name                string
	Location            string
	AddressSpace        string // e.g. 10.0.0.0/16
	SubnetName          string // default workload subnet
	SubnetPrefix        string // e.g. 10.0.1.0/24
	GatewaySubnetPrefix string // e.g. 10.0.255.0/27, required for the VPN gateway
	Tags                map[string]*string
}

// GatewaySpec describes the VPN gateway, including certificate-based client
// auth. RootCertData is the base64 public cert data uploaded to the gateway;
// generating the certificate itself is out of scope here.
type GatewaySpec struct {
	Name              string
	Location          string
	SubnetID          string // GatewaySubnet resource ID
	PublicIPID        string
	ClientAddressPool string // e.g. 172.16.0.0/24
	RootCertName      string
	RootCertData      string
	Tags              map[string]*string
}

// NATSpec describes the NAT gateway.
type NATSpec struct {
	Name       string
	Location   string
	PublicIPID string
	Tags       map[string]*string
}

// EnsureVirtualNetwork creates or updates the virtual network and waits for
// the operation to finish. Returns the GatewaySubnet resource ID.
func (c *Clients) EnsureVirtualNetwork(ctx context.Context, resourceGroup string, spec NetworkSpec) (string, error) {
	subnets := []*armnetwork.Subnet{
		{
			Name: ptr(spec.SubnetName),
			Properties: &armnetwork.SubnetPropertiesFormat{
				AddressPrefix: ptr(spec.SubnetPrefix),
			},
		},
	}
	if spec.GatewaySubnetPrefix != "" {
		// The gateway subnet must be named exactly "GatewaySubnet".
		subnets = append(subnets, &armnetwork.Subnet{
			Name: ptr("GatewaySubnet"),
			Properties: &armnetwork.SubnetPropertiesFormat{
				AddressPrefix: ptr(spec.GatewaySubnetPrefix),
			},
		})
	}

	poller, err := c.VirtualNetworks.BeginCreateOrUpdate(ctx, resourceGroup, spec.Name, armnetwork.VirtualNetwork{
		Location: ptr(spec.Location),
		Tags:     spec.Tags,
		Properties: &armnetwork.VirtualNetworkPropertiesFormat{
			AddressSpace: &armnetwork.AddressSpace{
				AddressPrefixes: []*string{ptr(spec.AddressSpace)},
			},
			Subnets: subnets,
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("create virtual network %s: %w", spec.Name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("create virtual network %s: %w", spec.Name, err)
	}

	for _, sn := range resp.Properties.Subnets {
		if sn.Name != nil && *sn.Name == "GatewaySubnet" && sn.ID != nil {
			return *sn.ID, nil
		}
	}
	return "", nil
}

// EnsurePublicIP creates or updates a standard static public IP and returns
// its resource ID.
func (c *Clients) EnsurePublicIP(ctx context.Context, resourceGroup, name, location string, tags map[string]*string) (string, error) {
	poller, err := c.PublicIPs.BeginCreateOrUpdate(ctx, resourceGroup, name, armnetwork.PublicIPAddress{
		Location: ptr(location),
		Tags:     tags,
		SKU: &armnetwork.PublicIPAddressSKU{
			Name: ptr(armnetwork.PublicIPAddressSKUNameStandard),
		},
		Properties: &armnetwork.PublicIPAddressPropertiesFormat{
			PublicIPAllocationMethod: ptr(armnetwork.IPAllocationMethodStatic),
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("create public ip %s: %w", name, err)
	}
	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("create public ip %s: %w", name, err)
	}
	if resp.ID == nil {
		return "", fmt.Errorf("create public ip %s: no resource ID returned", name)
	}
	return *resp.ID, nil
}

// EnsureNATGateway creates or updates the NAT gateway and waits for it.
func (c *Clients) EnsureNATGateway(ctx context.Context, resourceGroup string, spec NATSpec) error {
	poller, err := c.NATGateways.BeginCreateOrUpdate(ctx, resourceGroup, spec.Name, armnetwork.NatGateway{
		Location: ptr(spec.Location),
		Tags:     spec.Tags,
		SKU: &armnetwork.NatGatewaySKU{
			Name: ptr(armnetwork.NatGatewaySKUNameStandard),
		},
		Properties: &armnetwork.NatGatewayPropertiesFormat{
			PublicIPAddresses: []*armnetwork.SubResource{
				{ID: ptr(spec.PublicIPID)},
			},
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("create nat gateway %s: %w", spec.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("create nat gateway %s: %w", spec.Name, err)
	}
	return nil
}

// EnsureVPNGateway creates or updates the VPN gateway and waits for it.
// This is the slow one: 30-45 minutes on a cold deploy.
func (c *Clients) EnsureVPNGateway(ctx context.Context, resourceGroup string, spec GatewaySpec) error {
	props := &armnetwork.VirtualNetworkGatewayPropertiesFormat{
		GatewayType: ptr(armnetwork.VirtualNetworkGatewayTypeVPN),
		VPNType:     ptr(armnetwork.VPNTypeRouteBased),
		SKU: &armnetwork.VirtualNetworkGatewaySKU{
			Name: ptr(armnetwork.VirtualNetworkGatewaySKUNameVPNGw1),
			Tier: ptr(armnetwork.VirtualNetworkGatewaySKUTierVPNGw1),
		},
		IPConfigurations: []*armnetwork.VirtualNetworkGatewayIPConfiguration{
			{
				Name: ptr("gwipconfig"),
				Properties: &armnetwork.VirtualNetworkGatewayIPConfigurationPropertiesFormat{
					PrivateIPAllocationMethod: ptr(armnetwork.IPAllocationMethodDynamic),
					Subnet:                    &armnetwork.SubResource{ID: ptr(spec.SubnetID)},
					PublicIPAddress:           &armnetwork.SubResource{ID: ptr(spec.PublicIPID)},
				},
			},
		},
	}

	if spec.ClientAddressPool != "" && spec.RootCertData != "" {
		props.VPNClientConfiguration = &armnetwork.VPNClientConfiguration{
			VPNClientAddressPool: &armnetwork.AddressSpace{
				AddressPrefixes: []*string{ptr(spec.ClientAddressPool)},
			},
			VPNClientProtocols: []*armnetwork.VPNClientProtocol{
				ptr(armnetwork.VPNClientProtocolIkeV2),
			},
			VPNClientRootCertificates: []*armnetwork.VPNClientRootCertificate{
				{
					Name: ptr(spec.RootCertName),
					Properties: &armnetwork.VPNClientRootCertificatePropertiesFormat{
						PublicCertData: ptr(spec.RootCertData),
					},
				},
			},
		}
	}

	poller, err := c.VPNGateways.BeginCreateOrUpdate(ctx, resourceGroup, spec.Name, armnetwork.VirtualNetworkGateway{
		Location:   ptr(spec.Location),
		Tags:       spec.Tags,
		Properties: props,
	}, nil)
	if err != nil {
		return fmt.Errorf("create vpn gateway %s: %w", spec.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("create vpn gateway %s: %w", spec.Name, err)
	}
	return nil
}
