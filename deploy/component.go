// Package deploy translates a requested home-lab component into an external
// provisioning invocation, run inline or as a background unit.
package deploy

import (
	"errors"
	"fmt"
)

// Component identifies one deployable piece of the home-lab network.
// The set is closed; anything else is a configuration error.
type Component int

const (
	ComponentNetwork Component = iota
	ComponentVPNGateway
	ComponentNATGateway
)

// ErrUnknownComponent is returned for component names outside the known set.
var ErrUnknownComponent = errors.New("unknown component")

// Components returns all known components.
func Components() []Component {
	return []Component{ComponentNetwork, ComponentVPNGateway, ComponentNATGateway}
}

// ParseComponent maps a component name to its Component value.
func ParseComponent(s string) (Component, error) {
	switch s {
	case "network":
		return ComponentNetwork, nil
	case "vpn-gateway":
		return ComponentVPNGateway, nil
	case "nat-gateway":
		return ComponentNATGateway, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownComponent, s)
}

// String returns the component's CLI name.
func (c Component) String() string {
	switch c {
	case ComponentNetwork:
		return "network"
	case ComponentVPNGateway:
		return "vpn-gateway"
	case ComponentNATGateway:
		return "nat-gateway"
	default:
		return fmt.Sprintf("component(%d)", int(c))
	}
}

// Valid reports whether the component is inside the known set.
func (c Component) Valid() bool {
	switch c {
	case ComponentNetwork, ComponentVPNGateway, ComponentNATGateway:
		return true
	}
	return false
}

// TemplateFile returns the Bicep template file name for the component.
func (c Component) TemplateFile() string {
	return c.String() + ".bicep"
}
