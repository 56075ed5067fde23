// Package mocks provides test doubles for the resend client.
package mocks

import (
	"context"

	resend "github.com/guestbites/guestbites/pkg/resend"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Send provides a mock function with given fields: ctx, email
func (_m *MockClient) Send(ctx context.Context, email resend.Email) (*resend.SendResponse, error) {
	ret := _m.Called(ctx, email)

	if len(ret) == 0 {
		panic("no return value specified for Send")
	}

	var r0 *resend.SendResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, resend.Email) (*resend.SendResponse, error)); ok {
		return rf(ctx, email)
	}
	if rf, ok := ret.Get(0).(func(context.Context, resend.Email) *resend.SendResponse); ok {
		r0 = rf(ctx, email)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*resend.SendResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, resend.Email) error); ok {
		r1 = rf(ctx, email)
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
