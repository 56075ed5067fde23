// Package mocks provides test doubles for the nominatim client.
package mocks

import (
	"context"

	nominatim "github.com/guestbites/guestbites/pkg/nominatim"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, postalCode
func (_m *MockClient) Search(ctx context.Context, postalCode string) (*nominatim.Location, error) {
	ret := _m.Called(ctx, postalCode)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *nominatim.Location
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*nominatim.Location, error)); ok {
		return rf(ctx, postalCode)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *nominatim.Location); ok {
		r0 = rf(ctx, postalCode)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*nominatim.Location)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, postalCode)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Reverse provides a mock function with given fields: ctx, lat, lon
func (_m *MockClient) Reverse(ctx context.Context, lat float64, lon float64) (string, error) {
	ret := _m.Called(ctx, lat, lon)

	if len(ret) == 0 {
		panic("no return value specified for Reverse")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64) (string, error)); ok {
		return rf(ctx, lat, lon)
	}
	if rf, ok := ret.Get(0).(func(context.Context, float64, float64) string); ok {
		r0 = rf(ctx, lat, lon)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, float64, float64) error); ok {
		r1 = rf(ctx, lat, lon)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
