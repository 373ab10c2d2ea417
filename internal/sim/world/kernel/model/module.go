package model

import (
	"fmt"
	"strings"
)

// Module is an equipped capability tag. The set is closed and carries no behavior.
type Module uint8

const (
	ModuleChemicalAnalysis Module = iota + 1
	ModuleDrilling
	ModuleHighResImaging
)

var moduleNames = map[Module]string{
	ModuleChemicalAnalysis: "CHEMICAL_ANALYSIS",
	ModuleDrilling:         "DRILLING",
	ModuleHighResImaging:   "HIGH_RES_IMAGING",
}

func (m Module) String() string {
	if s, ok := moduleNames[m]; ok {
		return s
	}
	return fmt.Sprintf("MODULE(%d)", uint8(m))
}

func ParseModule(s string) (Module, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	for m, name := range moduleNames {
		if name == key {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown module %q", s)
}

func ParseModules(names []string) ([]Module, error) {
	out := make([]Module, 0, len(names))
	for _, n := range names {
		m, err := ParseModule(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
