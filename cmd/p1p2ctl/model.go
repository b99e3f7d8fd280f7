package main

import (
	"fmt"
	"strings"

	"github.com/MadAppGang/p1p2aux/control"
)

// resolveModel maps the --model flag to a control.Model, per spec.md
// §4.6's single process-wide selection made once at init.
func resolveModel(name string) (control.Model, error) {
	switch strings.ToUpper(name) {
	case "BCL":
		return control.BCL{}, nil
	case "P":
		return control.P{}, nil
	case "M":
		return control.M{}, nil
	default:
		return nil, fmt.Errorf("unknown model %q (want BCL, P, or M)", name)
	}
}
