package registry

import (
	"github.com/joshuapare/regkey/pkg/types"
)

// resultError translates a store result code that the calling operation did
// not absorb into an error. Every operation funnels unexpected codes here.
func resultError(op, path string, code types.ResultCode) error {
	var kind types.ErrKind
	switch code {
	case types.NotFound, types.InvalidParameter:
		kind = types.ErrKindInvalidArgument
	case types.AccessDenied:
		kind = types.ErrKindAccessDenied
	case types.MarkedForDeletion:
		kind = types.ErrKindMarkedForDeletion
	case types.InvalidHandle:
		kind = types.ErrKindDisposed
	default:
		kind = types.ErrKindUnidentified
	}
	return types.Errorf(kind, "%s %s: %s", op, path, code)
}
