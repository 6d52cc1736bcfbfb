package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Environment selects between the development and production build flavours.
type Environment string

const (
	// Development is the default environment. It keeps drafts, staging output and the
	// sprite preview page.
	Development Environment = "development"
	// Production minifies everything and writes only to the generator input tree.
	Production Environment = "production"
)

// ParseEnvironment converts a raw environment value into an Environment.
// An empty value yields Development.
func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(Development):
		return Development, nil
	case string(Production):
		return Production, nil
	default:
		return "", zerr.With(ErrUnknownEnvironment, "env", raw)
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}

func (e Environment) String() string {
	return string(e)
}
