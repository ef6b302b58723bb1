package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/mocks"
	"messaging-service/internal/telemetry"
)

func TestEmitPublishesEnvelope(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	var published any
	publisher.On("Publish", mock.Anything, "audit.messaging", mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(2) }).
		Return(nil).Once()

	emitter := telemetry.NewAuditEmitter(publisher, "audit.messaging", "messaging-service", "test")
	profileID := "p1"
	emitter.Emit(context.Background(), "INFO", "Conversation created", "req-1", &profileID)

	publisher.AssertExpectations(t)
	envelope, ok := published.(telemetry.AuditEnvelope)
	require.True(t, ok)
	require.Equal(t, 1, envelope.SchemaVersion)
	require.Equal(t, "audit_log", envelope.EventType)
	require.Equal(t, "messaging-service", envelope.Service)
	require.Equal(t, "test", envelope.Environment)
	require.Equal(t, "req-1", envelope.RequestID)
	require.NotNil(t, envelope.ProfileID)
	require.Equal(t, "p1", *envelope.ProfileID)
	require.Equal(t, "INFO", envelope.Payload.Level)
	require.Equal(t, "Conversation created", envelope.Payload.Text)
	require.NotEmpty(t, envelope.OccurredAt)
}

func TestEmitSwallowsPublishFailure(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	publisher.On("Publish", mock.Anything, "audit.messaging", mock.Anything).
		Return(errors.New("broker down")).Once()

	emitter := telemetry.NewAuditEmitter(publisher, "audit.messaging", "messaging-service", "test")
	emitter.Emit(context.Background(), "ERROR", "conversation creation failed", "req-1", nil)

	publisher.AssertExpectations(t)
}

func TestEmitNilEmitterAndPublisher(t *testing.T) {
	var emitter *telemetry.AuditEmitter
	emitter.Emit(context.Background(), "INFO", "noop", "req-1", nil)

	emitter = telemetry.NewAuditEmitter(nil, "audit.messaging", "messaging-service", "test")
	emitter.Emit(context.Background(), "INFO", "noop", "req-1", nil)
}
