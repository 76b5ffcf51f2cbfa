package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/faroemiliano/backBarberia1991/internal/notification"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

type mockSender struct {
	sendFn func(to, subject string) error
	calls  int
}

func (m *mockSender) Send(ctx context.Context, to, subject, text, html string) error {
	m.calls++
	if m.sendFn == nil {
		return nil
	}
	return m.sendFn(to, subject)
}

func delivery(t *testing.T, ack *fakeAck, msg any, redelivered bool) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body, Redelivered: redelivered}
}

func confirmation() notification.Message {
	return notification.Message{
		ID:        "m-1",
		Kind:      notification.KindConfirmation,
		Recipient: "cliente@example.com",
		Name:      "Juan",
		Date:      "2026-11-03",
		Time:      "11:30",
		Service:   "Corte",
	}
}

func TestHandleMessage_SendsAndAcks(t *testing.T) {
	var gotTo, gotSubject string
	sender := &mockSender{sendFn: func(to, subject string) error {
		gotTo, gotSubject = to, subject
		return nil
	}}
	ack := &fakeAck{}

	NewNotificationConsumer(sender, nil).handleMessage(context.Background(), delivery(t, ack, confirmation(), false))

	assert.True(t, ack.acked)
	assert.False(t, ack.nacked)
	assert.Equal(t, "cliente@example.com", gotTo)
	assert.Contains(t, gotSubject, "Confirmación")
}

func TestHandleMessage_MalformedIsDropped(t *testing.T) {
	sender := &mockSender{}
	ack := &fakeAck{}

	NewNotificationConsumer(sender, nil).handleMessage(context.Background(),
		amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.Zero(t, sender.calls)
}

func TestHandleMessage_UnknownKindIsDropped(t *testing.T) {
	sender := &mockSender{}
	ack := &fakeAck{}
	msg := confirmation()
	msg.Kind = "reminder"

	NewNotificationConsumer(sender, nil).handleMessage(context.Background(), delivery(t, ack, msg, false))

	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
	assert.Zero(t, sender.calls)
}

func TestHandleMessage_SendFailureRequeuesOnce(t *testing.T) {
	sender := &mockSender{sendFn: func(to, subject string) error {
		return errors.New("provider down")
	}}

	first := &fakeAck{}
	NewNotificationConsumer(sender, nil).handleMessage(context.Background(), delivery(t, first, confirmation(), false))
	assert.True(t, first.nacked)
	assert.True(t, first.requeue)

	second := &fakeAck{}
	NewNotificationConsumer(sender, nil).handleMessage(context.Background(), delivery(t, second, confirmation(), true))
	assert.True(t, second.nacked)
	assert.False(t, second.requeue)
}

func TestStart_DrainsUntilClosed(t *testing.T) {
	sender := &mockSender{}
	msgs := make(chan amqp.Delivery, 2)
	acks := []*fakeAck{{}, {}}
	msgs <- delivery(t, acks[0], confirmation(), false)
	msgs <- delivery(t, acks[1], confirmation(), false)
	close(msgs)

	<-NewNotificationConsumer(sender, nil).Start(context.Background(), msgs)

	assert.Equal(t, 2, sender.calls)
	assert.True(t, acks[0].acked)
	assert.True(t, acks[1].acked)
}
