// Package mocks provides test doubles for source clients.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	source "github.com/renbran/dubai-sme-scraper-sub000/internal/source"
)

// MockClient is a mock type for the source.Client interface.
type MockClient struct {
	mock.Mock
}

// Name provides a mock function with given fields:
func (_m *MockClient) Name() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Name")
	}

	return ret.String(0)
}

// Search provides a mock function with given fields: ctx, query, location, limits
func (_m *MockClient) Search(ctx context.Context, query string, location string, limits source.Limits) ([]model.BusinessRecord, error) {
	ret := _m.Called(ctx, query, location, limits)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 []model.BusinessRecord
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string, source.Limits) ([]model.BusinessRecord, error)); ok {
		return rf(ctx, query, location, limits)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.BusinessRecord)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockClient creates a new instance of MockClient named name.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}, name string) *MockClient {
	m := &MockClient{}
	m.Test(t)
	m.On("Name").Return(name).Maybe()

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
