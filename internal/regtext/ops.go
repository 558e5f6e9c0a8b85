package regtext

import "github.com/joshuapare/regkey/registry/codec"

// Op is one change described by a .reg file. Paths are fully qualified,
// starting with a hive name.
type Op interface {
	op()
}

// CreateKey ensures a key exists. It is produced by every [section].
type CreateKey struct {
	Path string
}

// DeleteKey removes a key and everything below it: [-section].
type DeleteKey struct {
	Path string
}

// SetValue stores a value: "name"=data.
type SetValue struct {
	Path  string
	Name  string
	Value codec.Value
}

// DeleteValue removes a value: "name"=-.
type DeleteValue struct {
	Path string
	Name string
}

func (CreateKey) op()   {}
func (DeleteKey) op()   {}
func (SetValue) op()    {}
func (DeleteValue) op() {}
