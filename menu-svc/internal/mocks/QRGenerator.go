package mocks

import "github.com/stretchr/testify/mock"

type QRGenerator struct {
	mock.Mock
}

func (_m *QRGenerator) Generate(restaurantID int) ([]byte, error) {
	ret := _m.Called(restaurantID)
	var r0 []byte
	if v := ret.Get(0); v != nil {
		r0 = v.([]byte)
	}
	return r0, ret.Error(1)
}

func NewQRGenerator(t interface {
	mock.TestingT
	Cleanup(func())
}) *QRGenerator {
	m := &QRGenerator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
