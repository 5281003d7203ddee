package mocks

import (
	"context"

	model "github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockContactEnricher is a mock type for the ContactEnricher interface.
type MockContactEnricher struct {
	mock.Mock
}

// Enrich provides a mock function with given fields: ctx, domain
func (_m *MockContactEnricher) Enrich(ctx context.Context, domain string) (*model.ContactResult, error) {
	ret := _m.Called(ctx, domain)

	if len(ret) == 0 {
		panic("no return value specified for Enrich")
	}

	var r0 *model.ContactResult
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*model.ContactResult, error)); ok {
		return rf(ctx, domain)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.ContactResult)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockContactEnricher creates a new instance of MockContactEnricher.
func NewMockContactEnricher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockContactEnricher {
	mock := &MockContactEnricher{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
