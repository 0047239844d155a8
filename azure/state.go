package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v7"

	"github.com/JustAGhosT/home-lab-setup-sub006/deploy"
)

// ProvisioningState returns the current provisioning-state string of a named
// network resource. It implements monitor.StateQuerier. Errors (including
// 404 while the resource is still being created) bubble up unwrapped; the
// poller treats them as transient.
func (c *Clients) ProvisioningState(ctx context.Context, resourceGroup string, component deploy.Component, name string) (string, error) {
	switch component {
	case deploy.ComponentNetwork:
		resp, err := c.VirtualNetworks.Get(ctx, resourceGroup, name, nil)
		if err != nil {
			return "", err
		}
		if resp.Properties == nil {
			return "", nil
		}
		return stateString(resp.Properties.ProvisioningState), nil
	case deploy.ComponentVPNGateway:
		resp, err := c.VPNGateways.Get(ctx, resourceGroup, name, nil)
		if err != nil {
			return "", err
		}
		if resp.Properties == nil {
			return "", nil
		}
		return stateString(resp.Properties.ProvisioningState), nil
	case deploy.ComponentNATGateway:
		resp, err := c.NATGateways.Get(ctx, resourceGroup, name, nil)
		if err != nil {
			return "", err
		}
		if resp.Properties == nil {
			return "", nil
		}
		return stateString(resp.Properties.ProvisioningState), nil
	default:
		return "", fmt.Errorf("%w: %s", deploy.ErrUnknownComponent, component)
	}
}

func stateString(s *armnetwork.ProvisioningState) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
