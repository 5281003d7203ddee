// Package mocks provides test doubles for the enrich interfaces.
package mocks

import (
	"context"

	model "github.com/renbran/dubai-sme-scraper-sub000/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockTextClassifier is a mock type for the TextClassifier interface.
type MockTextClassifier struct {
	mock.Mock
}

// Classify provides a mock function with given fields: ctx, rec
func (_m *MockTextClassifier) Classify(ctx context.Context, rec model.BusinessRecord) (*model.Classification, error) {
	ret := _m.Called(ctx, rec)

	if len(ret) == 0 {
		panic("no return value specified for Classify")
	}

	var r0 *model.Classification
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.BusinessRecord) (*model.Classification, error)); ok {
		return rf(ctx, rec)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Classification)
	}
	r1 = ret.Error(1)

	return r0, r1
}

// NewMockTextClassifier creates a new instance of MockTextClassifier.
func NewMockTextClassifier(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTextClassifier {
	mock := &MockTextClassifier{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
