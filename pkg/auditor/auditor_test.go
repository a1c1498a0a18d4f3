package auditor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/helmcode/hotel-audit/pkg/catalog"
	"github.com/helmcode/hotel-audit/pkg/llm"
	"github.com/helmcode/hotel-audit/pkg/llm/llmtest"
	"github.com/helmcode/hotel-audit/pkg/model"
)

var sapphire = model.AuditInput{
	HotelName:      "Treebo Trend Sapphire",
	City:           "Gurgaon",
	EvaluationType: model.NewOnboarding,
}

var fixed = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newAuditor(stub *llmtest.Stub, opts ...Option) *Auditor {
	opts = append([]Option{WithClock(func() time.Time { return fixed })}, opts...)
	return NewWithLLM(stub, catalog.Default(), opts...)
}

func TestRunRepairsAndStamps(t *testing.T) {
	stub := &llmtest.Stub{Replies: []llmtest.Reply{{Response: &llm.Response{
		Text: "Here is the audit:\n```json\n" +
			`{"executiveSummary": {"hotelName": "Treebo Trend Sapphire", "city": "Gurgaon", "evaluationType": "New Onboarding", "finalDecision": "Conditional / Improve", "averageScore": 6.2}, "scorecard": []}` +
			"\n```",
		Citations: []model.Citation{
			{Kind: model.CitationWeb, Title: "MakeMyTrip", URI: "https://www.makemytrip.com/x"},
			{Kind: model.CitationOther},
		},
	}}}}

	report, err := newAuditor(stub).Run(context.Background(), sapphire)
	require.NoError(t, err)

	assert.Equal(t, model.DecisionConditional, report.ExecutiveSummary.FinalDecision)
	assert.Equal(t, 6.2, report.ExecutiveSummary.AverageScore)
	assert.Len(t, report.OTAAudit, 6)
	assert.Equal(t, []model.GroundingSource{{Title: "MakeMyTrip", URI: "https://www.makemytrip.com/x"}}, report.GroundingSources)
	assert.Equal(t, fixed, report.GeneratedAt)
	_, err = uuid.Parse(report.Reference)
	assert.NoError(t, err)

	reqs := stub.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, reqs[0].Grounding)
	assert.Contains(t, reqs[0].Prompt, `"Treebo Trend Sapphire"`)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	stub := &llmtest.Stub{}

	_, err := newAuditor(stub).Run(context.Background(), model.AuditInput{HotelName: " ab ", City: "X"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, verr.Fields.Has("hotelName"))
	assert.True(t, verr.Fields.Has("city"))
	assert.False(t, Retryable(err))
	assert.Empty(t, stub.Requests(), "invalid input reached the service")
}

// Scenario C.
func TestRunCorruptedPayload(t *testing.T) {
	stub := &llmtest.Stub{Replies: []llmtest.Reply{llmtest.Text("Sorry, I can't help with that.")}}

	report, err := newAuditor(stub).Run(context.Background(), sapphire)

	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrCorruptedData)
	assert.True(t, Retryable(err))
	assert.Contains(t, UserMessage(err), "corrupted")
}

func TestRunEmptyResponse(t *testing.T) {
	for _, reply := range []llmtest.Reply{llmtest.Text(""), llmtest.Text("  \n"), {}} {
		stub := &llmtest.Stub{Replies: []llmtest.Reply{reply}}
		_, err := newAuditor(stub).Run(context.Background(), sapphire)
		assert.ErrorIs(t, err, ErrEmptyResponse)
		assert.True(t, Retryable(err))
	}
}

func TestRunServiceFailure(t *testing.T) {
	boom := errors.New("connection reset")
	stub := &llmtest.Stub{Replies: []llmtest.Reply{llmtest.Fail(boom)}}

	_, err := newAuditor(stub).Run(context.Background(), sapphire)

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.ErrorIs(t, err, boom)
	assert.True(t, Retryable(err))
	assert.Contains(t, UserMessage(err), "network error")
}

func TestRunTimeout(t *testing.T) {
	stub := &llmtest.Stub{Gate: make(chan struct{})}

	_, err := newAuditor(stub, WithTimeout(20*time.Millisecond)).Run(context.Background(), sapphire)

	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunLogsRepairs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	stub := &llmtest.Stub{Replies: []llmtest.Reply{llmtest.Text(`{"keyRisks": "none"}`)}}

	_, err := newAuditor(stub, WithLogger(zap.New(core))).Run(context.Background(), sapphire)
	require.NoError(t, err)

	assert.NotZero(t, logs.FilterMessage("repaired audit field").Len())
	done := logs.FilterMessage("audit complete").All()
	require.Len(t, done, 1)
	assert.Equal(t, "Treebo Trend Sapphire", done[0].ContextMap()["hotel"])
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Incomplete data: city: must be at least 2 characters",
		UserMessage(&ValidationError{Fields: model.FieldErrors{"city": "must be at least 2 characters"}}))
	assert.Contains(t, UserMessage(ErrEmptyResponse), "no data")
	assert.Equal(t, "other", UserMessage(errors.New("other")))
}
