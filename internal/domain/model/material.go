package model

import (
	"fmt"
	"strings"
)

// Material identifies the deflector surface a projectile bounced off.
type Material int

// Known deflector materials.
const (
	Glass Material = iota + 1
	Steel
)

// Materials lists every known material in report order.
var Materials = []Material{Glass, Steel} //nolint:gochecknoglobals // fixed enumeration

// String returns the display name of the material.
func (m Material) String() string {
	switch m {
	case Glass:
		return "Glass"
	case Steel:
		return "Steel"
	default:
		return fmt.Sprintf("Material(%d)", int(m))
	}
}

// Valid reports whether m is one of the known materials.
func (m Material) Valid() bool {
	return m == Glass || m == Steel
}

// ParseMaterial parses a material name, ignoring case and surrounding space.
func ParseMaterial(s string) (Material, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glass":
		return Glass, nil
	case "steel":
		return Steel, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Material) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMaterial, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Material) UnmarshalText(text []byte) error {
	parsed, err := ParseMaterial(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
