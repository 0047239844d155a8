package deploy

import (
	"github.com/JustAGhosT/home-lab-setup-sub006/config"
)

// Param is one key/value deployment argument.
type Param struct {
	Key   string
	Value string
}

// ParamSet is an ordered collection of deployment arguments. It is assembled
// once per invocation and never mutated afterwards; With returns a copy.
type ParamSet []Param

// NewParamSet assembles the standard parameter set from configuration.
func NewParamSet(cfg config.Config) ParamSet {
	return ParamSet{
		{Key: "environment", Value: cfg.Environment},
		{Key: "location", Value: cfg.Location},
		{Key: "project", Value: cfg.Project},
		{Key: "resourceGroup", Value: cfg.ResourceGroup},
	}
}

// With returns a new ParamSet extended by one argument.
func (ps ParamSet) With(key, value string) ParamSet {
	out := make(ParamSet, len(ps), len(ps)+1)
	copy(out, ps)
	return append(out, Param{Key: key, Value: value})
}

// Args renders the set as key=value strings in assembly order.
func (ps ParamSet) Args() []string {
	args := make([]string, 0, len(ps))
	for _, p := range ps {
		args = append(args, p.Key+"="+p.Value)
	}
	return args
}
