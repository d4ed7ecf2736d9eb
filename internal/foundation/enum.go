package foundation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrNoValue marks a failed Result created without a cause.
var ErrNoValue = errors.New("no value")

// ErrUnknownValue is returned for names a Normalizer does not know.
var ErrUnknownValue = errors.New("unknown value")

// fold lower-cases s, trims it and treats '-' and '_' alike.
func fold(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
}

// Normalizer maps loosely written names (any case, '-' or '_') onto the
// values of a string enum.
type Normalizer[T comparable] struct {
	values map[string]T
	names  []string
}

// NewNormalizer creates a normalizer from name->value pairs.
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	n := &Normalizer[T]{values: make(map[string]T, len(values))}
	for k, v := range values {
		n.values[fold(k)] = v
		n.names = append(n.names, k)
	}
	slices.Sort(n.names)
	return n
}

// Normalize returns the value for raw and whether it was recognized.
func (n *Normalizer[T]) Normalize(raw string) (T, bool) {
	v, ok := n.values[fold(raw)]
	return v, ok
}

// NormalizeWithError is Normalize with an ErrUnknownValue error listing
// the accepted names.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.Normalize(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownValue, raw, strings.Join(n.names, ", "))
}
