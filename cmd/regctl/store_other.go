//go:build !windows

package main

import (
	"errors"

	"github.com/joshuapare/regkey/registry"
)

func openWindowsStore() (registry.Store, error) {
	return nil, errors.New("the windows store is only available on Windows")
}
