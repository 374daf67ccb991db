package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakeJetStream struct {
	msgs []published
	err  error
}

func (f *fakeJetStream) Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.msgs = append(f.msgs, published{subject: subj, data: data})
	return &nats.PubAck{Stream: StreamName, Sequence: uint64(len(f.msgs))}, nil
}

func TestClient_PublishSearch(t *testing.T) {
	js := &fakeJetStream{}
	c := NewWithJetStream(js)

	event := models.SearchEvent{
		Token:       "tok",
		Origin:      "SYD",
		Destination: "MEL",
		OfferCount:  4,
		Timestamp:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, c.PublishSearch(context.Background(), event))
	require.Len(t, js.msgs, 1)
	assert.Equal(t, SubjectSearchCompleted, js.msgs[0].subject)

	var decoded models.SearchEvent
	require.NoError(t, json.Unmarshal(js.msgs[0].data, &decoded))
	assert.Equal(t, event, decoded)
}

func TestClient_PublishPricing(t *testing.T) {
	js := &fakeJetStream{}
	c := NewWithJetStream(js)

	state := models.PricingWorkflowState{WorkflowID: "pricing-1-tok", Status: models.PricingStatusPriced, PricedTotal: 99}
	require.NoError(t, c.PublishPricing(context.Background(), state))
	require.Len(t, js.msgs, 1)
	assert.Equal(t, SubjectPricingCompleted, js.msgs[0].subject)
	assert.Contains(t, string(js.msgs[0].data), `"status":"priced"`)
}

func TestClient_PublishError(t *testing.T) {
	c := NewWithJetStream(&fakeJetStream{err: errors.New("no responders")})

	err := c.PublishSearch(context.Background(), models.SearchEvent{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), SubjectSearchCompleted)
	c.Close()
}

func TestConnect_EmptyURLIsNoop(t *testing.T) {
	p, err := Connect("")
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.PublishSearch(context.Background(), models.SearchEvent{}))
	assert.NoError(t, p.PublishPricing(context.Background(), models.PricingWorkflowState{}))
}
