// Package accession validates and classifies ProteomeXchange, PRIDE and MassIVE
// project identifiers.
package accession

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glorpus-work/pxget/pkg/errors"
)

// Kind tells which registry issued an identifier.
type Kind int

const (
	// KindProteomeXchange covers PXD and PRD accessions. PRIDE serves them natively.
	KindProteomeXchange Kind = iota + 1
	// KindMassive covers MSV accessions and RMSV reanalyses.
	KindMassive
)

func (k Kind) String() string {
	switch k {
	case KindProteomeXchange:
		return "ProteomeXchange"
	case KindMassive:
		return "MassIVE"
	default:
		return "unknown"
	}
}

var (
	pxPattern      = regexp.MustCompile(`^P[XR]D[0-9]{6}$`)
	massivePattern = regexp.MustCompile(`^R?MSV[0-9]{9}$`)
)

// Identifier is a validated, upper-cased accession.
type Identifier struct {
	Value string
	Kind  Kind
}

func (id Identifier) String() string {
	return id.Value
}

// Parse validates raw against every known pattern.
func Parse(raw string) (Identifier, error) {
	value := normalize(raw)
	switch {
	case pxPattern.MatchString(value):
		return Identifier{Value: value, Kind: KindProteomeXchange}, nil
	case massivePattern.MatchString(value):
		return Identifier{Value: value, Kind: KindMassive}, nil
	}
	return Identifier{}, fmt.Errorf("%w: %q", errors.ErrMalformedIdentifier, raw)
}

// ParsePride accepts only PXD/PRD accessions.
func ParsePride(raw string) (Identifier, error) {
	value := normalize(raw)
	if !pxPattern.MatchString(value) {
		return Identifier{}, fmt.Errorf("%w: %q is not a PRIDE identifier", errors.ErrMalformedIdentifier, raw)
	}
	return Identifier{Value: value, Kind: KindProteomeXchange}, nil
}

// ParseMassive accepts only MSV/RMSV accessions.
func ParseMassive(raw string) (Identifier, error) {
	value := normalize(raw)
	if !massivePattern.MatchString(value) {
		return Identifier{}, fmt.Errorf("%w: %q is not a MassIVE identifier", errors.ErrMalformedIdentifier, raw)
	}
	return Identifier{Value: value, Kind: KindMassive}, nil
}

// HasMassivePrefix reports whether raw looks like a MassIVE accession without validating it.
func HasMassivePrefix(raw string) bool {
	value := normalize(raw)
	return strings.HasPrefix(value, "MSV") || strings.HasPrefix(value, "RMS")
}

// HasProteomeXchangePrefix reports whether raw starts like a PXD/PRD accession.
func HasProteomeXchangePrefix(raw string) bool {
	value := normalize(raw)
	return strings.HasPrefix(value, "PXD") || strings.HasPrefix(value, "PRD")
}

func normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
