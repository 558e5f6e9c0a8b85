package registry_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/joshuapare/regkey/pkg/types"
	"github.com/joshuapare/regkey/registry"
)

// mockStore records every store call. Unexpected calls fail the test.
type mockStore struct {
	mock.Mock
}

var _ registry.Store = (*mockStore)(nil)

func (m *mockStore) Open(parent registry.Handle, name string, access registry.Access) (registry.Handle, types.ResultCode) {
	args := m.Called(parent, name, access)
	return args.Get(0).(registry.Handle), args.Get(1).(types.ResultCode)
}

func (m *mockStore) Create(parent registry.Handle, name string) (registry.Handle, types.ResultCode) {
	args := m.Called(parent, name)
	return args.Get(0).(registry.Handle), args.Get(1).(types.ResultCode)
}

func (m *mockStore) Close(h registry.Handle) types.ResultCode {
	return m.Called(h).Get(0).(types.ResultCode)
}

func (m *mockStore) Flush(h registry.Handle) types.ResultCode {
	return m.Called(h).Get(0).(types.ResultCode)
}

func (m *mockStore) EnumKey(h registry.Handle, index, capacity int) (string, types.ResultCode) {
	args := m.Called(h, index, capacity)
	return args.String(0), args.Get(1).(types.ResultCode)
}

func (m *mockStore) EnumValue(h registry.Handle, index, capacity int) (string, types.RegType, types.ResultCode) {
	args := m.Called(h, index, capacity)
	return args.String(0), args.Get(1).(types.RegType), args.Get(2).(types.ResultCode)
}

func (m *mockStore) QueryValue(h registry.Handle, name string, buf []byte) (types.RegType, int, types.ResultCode) {
	args := m.Called(h, name, buf)
	return args.Get(0).(types.RegType), args.Int(1), args.Get(2).(types.ResultCode)
}

func (m *mockStore) SetValue(h registry.Handle, name string, tag types.RegType, data []byte) types.ResultCode {
	return m.Called(h, name, tag, data).Get(0).(types.ResultCode)
}

func (m *mockStore) DeleteKey(h registry.Handle, name string) types.ResultCode {
	return m.Called(h, name).Get(0).(types.ResultCode)
}

func (m *mockStore) DeleteValue(h registry.Handle, name string) types.ResultCode {
	return m.Called(h, name).Get(0).(types.ResultCode)
}

func probe() any {
	return mock.MatchedBy(func(b []byte) bool { return b == nil })
}

func fill() any {
	return mock.MatchedBy(func(b []byte) bool { return b != nil })
}
