package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oriumgames/cblock"
)

func (p Property) build() (cblock.AnyProperty, error) {
	switch strings.ToLower(p.Type) {
	case "int", "integer":
		return p.buildInt()
	case "bool", "boolean":
		def := false
		if p.Default != "" {
			v, err := strconv.ParseBool(p.Default)
			if err != nil {
				return nil, &cblock.ConfigError{Property: p.Name, Reason: "invalid default for property", Err: err}
			}
			def = v
		}
		return cblock.NewBoolProperty(p.Name, def)
	case "direction":
		return p.buildDirection()
	case "enum", "string":
		if len(p.Values) == 0 {
			return nil, &cblock.ConfigError{Property: p.Name, Reason: "no values for enum property"}
		}
		def := p.Values[0]
		if p.Default != "" {
			def = p.Default
		}
		return cblock.NewEnumProperty(p.Name, p.Values, def)
	default:
		return nil, &cblock.ConfigError{Property: p.Name, Reason: fmt.Sprintf("unknown type %q for property", p.Type)}
	}
}

func (p Property) buildInt() (cblock.AnyProperty, error) {
	lo, hi, ok := strings.Cut(p.Range, "~")
	if !ok {
		return nil, &cblock.ConfigError{Property: p.Name, Reason: fmt.Sprintf("range %q is not min~max for property", p.Range)}
	}
	min, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, &cblock.ConfigError{Property: p.Name, Reason: "invalid range for property", Err: err}
	}
	max, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, &cblock.ConfigError{Property: p.Name, Reason: "invalid range for property", Err: err}
	}
	def := min
	if p.Default != "" {
		def, err = strconv.Atoi(p.Default)
		if err != nil {
			return nil, &cblock.ConfigError{Property: p.Name, Reason: "invalid default for property", Err: err}
		}
	}
	return cblock.NewIntProperty(p.Name, min, max, def)
}

func (p Property) buildDirection() (cblock.AnyProperty, error) {
	var faces []cube.Face
	switch {
	case len(p.Values) == 0:
		faces = cblock.AllFaces()
	case len(p.Values) == 1 && p.Values[0] == "horizontal":
		faces = cblock.HorizontalFaces()
	default:
		for _, v := range p.Values {
			f, ok := cblock.ParseFace(strings.ToLower(v))
			if !ok {
				return nil, &cblock.ConfigError{Property: p.Name, Reason: fmt.Sprintf("unknown direction %q for property", v)}
			}
			faces = append(faces, f)
		}
	}
	def := faces[0]
	if p.Default != "" {
		f, ok := cblock.ParseFace(strings.ToLower(p.Default))
		if !ok {
			return nil, &cblock.ConfigError{Property: p.Name, Reason: fmt.Sprintf("unknown direction %q as default for property", p.Default)}
		}
		def = f
	}
	return cblock.NewDirectionProperty(p.Name, faces, def)
}
