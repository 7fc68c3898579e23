// Package alias maps short human-chosen device names to hardware addresses.
package alias

import (
	"errors"
	"fmt"
	"strings"

	"github.com/srg/bconnect/pkg/config"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrUnknownAlias is matched by every *UnknownAliasError.
var ErrUnknownAlias = errors.New("unknown alias")

// UnknownAliasError reports a lookup of an alias that is not in the table.
type UnknownAliasError struct {
	Alias string
}

func (e *UnknownAliasError) Error() string {
	return fmt.Sprintf("device %s missing from alias table", e.Alias)
}

func (e *UnknownAliasError) Is(target error) bool {
	return target == ErrUnknownAlias
}

// Table is an immutable alias -> address mapping that keeps declaration order.
type Table struct {
	entries *orderedmap.OrderedMap[string, string]
}

// NewTable builds a table from config devices. Addresses must be well-formed;
// they are stored uppercase.
func NewTable(devices []config.Device) (*Table, error) {
	entries := orderedmap.New[string, string](len(devices))
	for _, d := range devices {
		if d.Alias == "" {
			return nil, fmt.Errorf("%w: empty alias", config.ErrInvalidConfig)
		}
		if !config.ValidAddress(d.Address) {
			return nil, fmt.Errorf("%w: alias %q has malformed address %q", config.ErrInvalidConfig, d.Alias, d.Address)
		}
		if _, present := entries.Set(d.Alias, strings.ToUpper(d.Address)); present {
			return nil, fmt.Errorf("%w: duplicate alias %q", config.ErrInvalidConfig, d.Alias)
		}
	}
	return &Table{entries: entries}, nil
}

// Resolve returns the address for alias. Matching is exact and case-sensitive.
func (t *Table) Resolve(alias string) (string, error) {
	addr, ok := t.entries.Get(alias)
	if !ok {
		return "", &UnknownAliasError{Alias: alias}
	}
	return addr, nil
}

// AliasFor is the reverse lookup used when printing the connected set.
// Address comparison is case-insensitive.
func (t *Table) AliasFor(address string) (string, bool) {
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		if strings.EqualFold(pair.Value, address) {
			return pair.Key, true
		}
	}
	return "", false
}

// Aliases lists every alias in declaration order.
func (t *Table) Aliases() []string {
	names := make([]string, 0, t.entries.Len())
	for pair := t.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (t *Table) Len() int {
	return t.entries.Len()
}
