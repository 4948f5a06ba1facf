package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/abgdnv/productcrud/pkg/messaging"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingJetStream struct {
	subject string
	payload []byte
	err     error
}

func (r *recordingJetStream) Publish(_ context.Context, subject string, payload []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	r.subject = subject
	r.payload = payload
	if r.err != nil {
		return nil, r.err
	}
	return &jetstream.PubAck{Stream: "PRODUCTS", Sequence: 1}, nil
}

type testEvent struct {
	payloadErr error
}

func (testEvent) Subject() string { return messaging.ProductsCreatedSubject }

func (e testEvent) Payload() ([]byte, error) {
	if e.payloadErr != nil {
		return nil, e.payloadErr
	}
	return []byte(`{"ok":true}`), nil
}

func Test_NatsPublisher_Publish(t *testing.T) {
	errBroker := errors.New("broker down")
	errPayload := errors.New("bad payload")
	testCases := []struct {
		name        string
		js          *recordingJetStream
		event       testEvent
		expectError error
	}{
		{
			name:  "Success - published",
			js:    &recordingJetStream{},
			event: testEvent{},
		},
		{
			name:        "Error - broker failure",
			js:          &recordingJetStream{err: errBroker},
			event:       testEvent{},
			expectError: errBroker,
		},
		{
			name:        "Error - payload failure",
			js:          &recordingJetStream{},
			event:       testEvent{payloadErr: errPayload},
			expectError: errPayload,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			publisher := NewNatsPublisher(tc.js)
			// when
			err := publisher.Publish(context.Background(), tc.event)
			// then
			if tc.expectError != nil {
				assert.ErrorIs(t, err, tc.expectError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, messaging.ProductsCreatedSubject, tc.js.subject)
			assert.JSONEq(t, `{"ok":true}`, string(tc.js.payload))
		})
	}
}
