// Package mocks provides test doubles for the foursquare client.
package mocks

import (
	"context"

	foursquare "github.com/guestbites/guestbites/pkg/foursquare"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, req
func (_m *MockClient) Search(ctx context.Context, req foursquare.SearchRequest) (*foursquare.Outcome, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *foursquare.Outcome
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, foursquare.SearchRequest) (*foursquare.Outcome, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, foursquare.SearchRequest) *foursquare.Outcome); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*foursquare.Outcome)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, foursquare.SearchRequest) error); ok {
		r1 = rf(ctx, req)
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
