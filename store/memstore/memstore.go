// Package memstore is an in-memory registry.Store.
//
// Key and value names are case-insensitive and case-preserving. Sub-keys
// enumerate in case-folded name order, values in insertion order. A deleted
// key stays reachable through handles that were open on it, and every
// operation on such a handle reports types.MarkedForDeletion.
package memstore

import (
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/joshuapare/regkey/internal/format"
	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
)

type node struct {
	name     string
	depth    int
	children []*node
	values   []*value
	deleted  bool
}

type value struct {
	name string
	tag  types.RegType
	data []byte
}

type openKey struct {
	n        *node
	writable bool
}

// Store is a registry.Store held in memory. The zero value is not usable;
// call New.
type Store struct {
	mu      sync.Mutex
	roots   map[registry.Hive]*node
	handles map[registry.Handle]openKey
	next    registry.Handle
	limits  types.Limits
	log     *slog.Logger
}

var _ registry.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLimits overrides the name, size and depth limits. Zero fields keep
// their defaults.
func WithLimits(l types.Limits) Option {
	return func(s *Store) { s.limits = l.Normalize() }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		roots:   make(map[registry.Hive]*node),
		handles: make(map[registry.Handle]openKey),
		limits:  types.DefaultLimits(),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenHandles returns the number of handles that are open and not yet
// closed. Hive roots are not counted.
func (s *Store) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handles)
}

func (s *Store) Open(parent registry.Handle, name string, access registry.Access) (registry.Handle, types.ResultCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _, code := s.resolve(parent)
	if code != types.Success {
		return 0, code
	}
	for _, seg := range registry.SplitName(name) {
		if format.UnitLen(seg) > s.limits.MaxKeyNameLen {
			return 0, types.InvalidParameter
		}
		if n = n.child(seg); n == nil {
			return 0, types.NotFound
		}
	}
	return s.register(n, access.CanWrite()), types.Success
}

func (s *Store) Create(parent registry.Handle, name string) (registry.Handle, types.ResultCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, writable, code := s.resolve(parent)
	if code != types.Success {
		return 0, code
	}
	segs := registry.SplitName(name)
	if n.depth+len(segs) > s.limits.MaxTreeDepth {
		return 0, types.InvalidParameter
	}
	for _, seg := range segs {
		if format.UnitLen(seg) > s.limits.MaxKeyNameLen {
			return 0, types.InvalidParameter
		}
	}

	for _, seg := range segs {
		c := n.child(seg)
		if c == nil {
			if !writable {
				return 0, types.AccessDenied
			}
			c = n.addChild(seg)
			s.log.Debug("memstore: created key", "name", seg, "depth", c.depth)
		}
		n = c
	}
	return s.register(n, true), types.Success
}

func (s *Store) Close(h registry.Handle) types.ResultCode {
	if _, ok := registry.HiveOf(h); ok {
		return types.Success
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.handles[h]; !ok {
		return types.InvalidHandle
	}
	delete(s.handles, h)
	return types.Success
}

// Flush succeeds for every valid handle; there is nothing to persist.
func (s *Store) Flush(h registry.Handle) types.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, _, code := s.resolve(h); code != types.Success && code != types.MarkedForDeletion {
		return code
	}
	return types.Success
}

func (s *Store) EnumKey(h registry.Handle, index, capacity int) (string, types.ResultCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _, code := s.resolve(h)
	if code != types.Success {
		return "", code
	}
	if index < 0 || index >= len(n.children) {
		return "", types.NoMoreEntries
	}
	return fitName(n.children[index].name, capacity)
}

func (s *Store) EnumValue(h registry.Handle, index, capacity int) (string, types.RegType, types.ResultCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _, code := s.resolve(h)
	if code != types.Success {
		return "", types.REG_NONE, code
	}
	if index < 0 || index >= len(n.values) {
		return "", types.REG_NONE, types.NoMoreEntries
	}
	v := n.values[index]
	name, code := fitName(v.name, capacity)
	return name, v.tag, code
}

func (s *Store) QueryValue(h registry.Handle, name string, buf []byte) (types.RegType, int, types.ResultCode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, _, code := s.resolve(h)
	if code != types.Success {
		return types.REG_NONE, 0, code
	}
	i := n.valueIndex(name)
	if i < 0 {
		return types.REG_NONE, 0, types.NotFound
	}
	v := n.values[i]
	switch {
	case buf == nil:
		return v.tag, len(v.data), types.Success
	case len(buf) < len(v.data):
		return v.tag, len(v.data), types.MoreData
	}
	return v.tag, copy(buf, v.data), types.Success
}

func (s *Store) SetValue(h registry.Handle, name string, tag types.RegType, data []byte) types.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, writable, code := s.resolve(h)
	switch {
	case code != types.Success:
		return code
	case !writable:
		return types.AccessDenied
	case format.UnitLen(name) > s.limits.MaxValueNameLen, len(data) > s.limits.MaxValueSize:
		return types.InvalidParameter
	}

	data = slices.Clone(data)
	if i := n.valueIndex(name); i >= 0 {
		n.values[i].tag, n.values[i].data = tag, data
		return types.Success
	}
	n.values = append(n.values, &value{name: name, tag: tag, data: data})
	return types.Success
}

func (s *Store) DeleteKey(h registry.Handle, name string) types.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, writable, code := s.resolve(h)
	if code != types.Success {
		return code
	}
	if !writable {
		return types.AccessDenied
	}
	segs := registry.SplitName(name)
	if len(segs) == 0 {
		return types.InvalidParameter
	}
	parent := n
	for _, seg := range segs[:len(segs)-1] {
		if parent = parent.child(seg); parent == nil {
			return types.NotFound
		}
	}
	i := parent.childIndex(segs[len(segs)-1])
	if i < 0 {
		return types.NotFound
	}
	victim := parent.children[i]
	if len(victim.children) > 0 {
		return types.AccessDenied
	}
	victim.deleted = true
	parent.children = slices.Delete(parent.children, i, i+1)
	s.log.Debug("memstore: deleted key", "name", victim.name)
	return types.Success
}

func (s *Store) DeleteValue(h registry.Handle, name string) types.ResultCode {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, writable, code := s.resolve(h)
	if code != types.Success {
		return code
	}
	if !writable {
		return types.AccessDenied
	}
	i := n.valueIndex(name)
	if i < 0 {
		return types.NotFound
	}
	n.values = slices.Delete(n.values, i, i+1)
	return types.Success
}

// resolve maps a handle to its node. Hive roots are created on first use and
// are always writable. Callers must hold s.mu.
func (s *Store) resolve(h registry.Handle) (*node, bool, types.ResultCode) {
	if hive, ok := registry.HiveOf(h); ok {
		n, ok := s.roots[hive]
		if !ok {
			n = &node{name: hive.String()}
			s.roots[hive] = n
		}
		return n, true, types.Success
	}
	k, ok := s.handles[h]
	if !ok {
		return nil, false, types.InvalidHandle
	}
	if k.n.deleted {
		return nil, false, types.MarkedForDeletion
	}
	return k.n, k.writable, types.Success
}

func (s *Store) register(n *node, writable bool) registry.Handle {
	s.next++
	s.handles[s.next] = openKey{n: n, writable: writable}
	return s.next
}

func foldKey(name string) string { return strings.ToLower(name) }

func (n *node) childIndex(name string) int {
	i, ok := slices.BinarySearchFunc(n.children, foldKey(name), func(c *node, k string) int {
		return strings.Compare(foldKey(c.name), k)
	})
	if !ok {
		return -1
	}
	return i
}

func (n *node) child(name string) *node {
	if i := n.childIndex(name); i >= 0 {
		return n.children[i]
	}
	return nil
}

func (n *node) addChild(name string) *node {
	c := &node{name: name, depth: n.depth + 1}
	i, _ := slices.BinarySearchFunc(n.children, foldKey(name), func(c *node, k string) int {
		return strings.Compare(foldKey(c.name), k)
	})
	n.children = slices.Insert(n.children, i, c)
	return c
}

func (n *node) valueIndex(name string) int {
	return slices.IndexFunc(n.values, func(v *value) bool { return strings.EqualFold(v.name, name) })
}

// fitName applies an enumeration buffer of capacity UTF-16 units to name.
func fitName(name string, capacity int) (string, types.ResultCode) {
	if prefix, ok := format.FitUnits(name, capacity); !ok {
		return prefix, types.MoreData
	}
	return name, types.Success
}
