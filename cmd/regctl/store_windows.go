package main

import (
	"github.com/joshuapare/regkey/internal/logger"
	"github.com/joshuapare/regkey/registry"
	"github.com/joshuapare/regkey/store/winstore"
)

func openWindowsStore() (registry.Store, error) {
	return winstore.New(winstore.WithLogger(logger.L)), nil
}
