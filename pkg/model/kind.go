package model

import "strings"

//go:generate go tool enumer -type Kind -trimprefix Kind -transform lower -json -yaml -output kind.gen.go

// Kind identifies one of the managed entity types.
type Kind int

const (
	KindFeature Kind = iota
	KindProduct
	KindEnvironment
	KindGroup
	KindToggle
)

// Plural returns the collection name used for API paths and catalog sections.
func (k Kind) Plural() string {
	return k.String() + "s"
}

// Title returns the capitalized kind name for user facing messages.
func (k Kind) Title() string {
	s := k.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
