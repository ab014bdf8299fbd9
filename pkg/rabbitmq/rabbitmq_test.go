package rabbitmq

import (
	"errors"
	"testing"

	"florist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockAck struct {
	mock.Mock
}

func (m *mockAck) Ack(multiple bool) error {
	return m.Called(multiple).Error(0)
}

func (m *mockAck) Nack(multiple, requeue bool) error {
	return m.Called(multiple, requeue).Error(0)
}

func TestSettle_AcksHandledUpdate(t *testing.T) {
	ack := new(mockAck)
	ack.On("Ack", false).Return(nil).Once()

	var got models.StatusUpdate
	settle(ack, []byte(`{"order_id":"o-1","status":"shipped"}`), false, func(u models.StatusUpdate) error {
		got = u
		return nil
	})

	assert.Equal(t, models.StatusUpdate{OrderID: "o-1", Status: "shipped"}, got)
	ack.AssertExpectations(t)
}

func TestSettle_DropsMalformed(t *testing.T) {
	ack := new(mockAck)
	ack.On("Nack", false, false).Return(nil).Twice()

	called := false
	handler := func(models.StatusUpdate) error { called = true; return nil }
	settle(ack, []byte(`not json`), false, handler)
	settle(ack, []byte(`{"status":"shipped"}`), false, handler)

	assert.False(t, called)
	ack.AssertExpectations(t)
}

func TestSettle_RequeuesOnlyOnce(t *testing.T) {
	ack := new(mockAck)
	ack.On("Nack", false, true).Return(nil).Once()
	ack.On("Nack", false, false).Return(nil).Once()

	failing := func(models.StatusUpdate) error { return errors.New("db down") }
	body := []byte(`{"order_id":"o-1","status":"shipped"}`)
	settle(ack, body, false, failing)
	settle(ack, body, true, failing)

	ack.AssertExpectations(t)
}
