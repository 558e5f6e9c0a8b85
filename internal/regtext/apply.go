package regtext

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/joshuapare/regkey/registry"
)

// Apply performs ops against store in order. Deleting a key or value that
// does not exist is not an error, matching regedit.
func Apply(store registry.Store, ops []Op, opts ...registry.Option) (err error) {
	a := applier{store: store, opts: opts}
	defer func() { err = multierr.Append(err, a.release()) }()

	for _, op := range ops {
		if err := a.apply(op); err != nil {
			return err
		}
	}
	return nil
}

// applier keeps the most recently written key open, since a .reg file sets
// the values of one section back to back.
type applier struct {
	store   registry.Store
	opts    []registry.Option
	curPath string
	cur     *registry.Key
}

func (a *applier) apply(op Op) error {
	switch op := op.(type) {
	case CreateKey:
		_, err := a.key(op.Path)
		return err

	case SetValue:
		k, err := a.key(op.Path)
		if err != nil {
			return err
		}
		return k.SetValue(op.Name, op.Value)

	case DeleteValue:
		root, sub, err := a.root(op.Path)
		if err != nil {
			return err
		}
		if sub == "" {
			return root.DeleteValue(op.Name, false)
		}
		k, err := root.OpenSubKey(sub, true)
		if err != nil || k == nil {
			return err
		}
		return multierr.Append(k.DeleteValue(op.Name, false), k.Close())

	case DeleteKey:
		if err := a.release(); err != nil {
			return err
		}
		root, sub, err := a.root(op.Path)
		if err != nil {
			return err
		}
		if sub == "" {
			return fmt.Errorf("cannot delete hive %s", op.Path)
		}
		exists, err := root.SubKeyExists(sub)
		if err != nil || !exists {
			return err
		}
		return root.DeleteSubKeyTree(sub)
	}
	return fmt.Errorf("unknown operation %T", op)
}

// key opens path for writing, creating it when missing.
func (a *applier) key(path string) (*registry.Key, error) {
	if a.cur != nil && strings.EqualFold(a.curPath, path) {
		return a.cur, nil
	}
	if err := a.release(); err != nil {
		return nil, err
	}

	root, sub, err := a.root(path)
	if err != nil {
		return nil, err
	}
	k := root
	if sub != "" {
		if k, err = root.OpenOrCreateSubKey(sub, true); err != nil {
			return nil, err
		}
	}
	a.cur, a.curPath = k, path
	return k, nil
}

func (a *applier) root(path string) (*registry.Key, string, error) {
	hive, sub, err := registry.ParsePath(path)
	if err != nil {
		return nil, "", err
	}
	return registry.OpenRoot(a.store, hive, a.opts...), sub, nil
}

func (a *applier) release() error {
	if a.cur == nil {
		return nil
	}
	err := a.cur.Close()
	a.cur, a.curPath = nil, ""
	return err
}
