package block

import (
	"sort"
	"strings"
)

// Property names shared by the catalog, the rules and the guides.
const (
	PropFacing    = "facing"
	PropChestType = "chest_type"
	PropEye       = "eye"
	PropAxis      = "axis"
	PropHalf      = "half"
)

// Chest pairing roles.
const (
	ChestSingle = "single"
	ChestLeft   = "left"
	ChestRight  = "right"
)

const Air = "AIR"

// State is a fully resolved block descriptor: a kind plus every property.
// Treat it as immutable; With returns a modified copy.
type State struct {
	Kind  string            `json:"kind"`
	Props map[string]string `json:"props,omitempty"`
}

func New(kind string, kv ...string) State {
	s := State{Kind: kind}
	if len(kv) > 1 {
		s.Props = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			s.Props[kv[i]] = kv[i+1]
		}
	}
	return s
}

func (s State) Has(prop string) bool {
	_, ok := s.Props[prop]
	return ok
}

func (s State) Get(prop string) (string, bool) {
	v, ok := s.Props[prop]
	return v, ok
}

// Bool reads a "true"/"false" property. ok is false when the property is
// absent or not boolean.
func (s State) Bool(prop string) (v bool, ok bool) {
	switch s.Props[prop] {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func (s State) With(prop, value string) State {
	props := make(map[string]string, len(s.Props)+1)
	for k, v := range s.Props {
		props[k] = v
	}
	props[prop] = value
	return State{Kind: s.Kind, Props: props}
}

// Equal is exact structural equality of kind and all properties.
func (s State) Equal(o State) bool {
	if s.Kind != o.Kind || len(s.Props) != len(o.Props) {
		return false
	}
	for k, v := range s.Props {
		if ov, ok := o.Props[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (s State) IsAir() bool { return s.Kind == "" || s.Kind == Air }

// String renders KIND[k=v,...] with keys sorted.
func (s State) String() string {
	if len(s.Props) == 0 {
		return s.Kind
	}
	keys := make([]string, 0, len(s.Props))
	for k := range s.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(s.Kind)
	b.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s.Props[k])
	}
	b.WriteByte(']')
	return b.String()
}
