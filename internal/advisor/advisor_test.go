package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingGenerator struct {
	reply       string
	err         error
	instruction string
	history     []Turn
	deadline    time.Time
}

func (generator *recordingGenerator) Generate(ctx context.Context, systemInstruction string, history []Turn) (string, error) {
	generator.instruction = systemInstruction
	generator.history = append([]Turn{}, history...)
	generator.deadline, _ = ctx.Deadline()
	return generator.reply, generator.err
}

func buildTranscript(turns int) []Turn {
	transcript := make([]Turn, 0, turns)
	for index := 0; index < turns; index++ {
		role := RoleUser
		if index%2 == 1 {
			role = RoleModel
		}
		transcript = append(transcript, Turn{Role: role, Text: fmt.Sprintf("turn %d", index)})
	}
	return transcript
}

func TestChatAppendsTurnPair(t *testing.T) {
	generator := &recordingGenerator{reply: "  Try a warm bath.  "}
	service := NewService(generator, time.Second, zap.NewNop())

	reply, err := service.Chat(context.Background(), Request{
		Topic:      "Cycle",
		Transcript: buildTranscript(2),
		Message:    "What helps with cramps?",
		Profile:    ProfileContext{CycleDay: 2, CyclePhase: "menstrual"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Try a warm bath.", reply.Reply)
	require.Len(t, reply.Transcript, 4)
	assert.Equal(t, Turn{Role: RoleUser, Text: "What helps with cramps?"}, reply.Transcript[2])
	assert.Equal(t, Turn{Role: RoleModel, Text: "Try a warm bath."}, reply.Transcript[3])
	require.Len(t, generator.history, 3)
	assert.Contains(t, generator.instruction, "menstrual cycle")
	assert.Contains(t, generator.instruction, "Cycle day 2")
	assert.Contains(t, generator.instruction, "clinician")
	assert.False(t, generator.deadline.IsZero())
}

func TestChatTrimsHistoryToLimit(t *testing.T) {
	generator := &recordingGenerator{reply: "ok"}
	service := NewService(generator, 0, nil)

	reply, err := service.Chat(context.Background(), Request{Transcript: buildTranscript(30), Message: "latest"})
	require.NoError(t, err)

	require.Len(t, generator.history, 19)
	assert.Equal(t, RoleUser, generator.history[0].Role)
	assert.Equal(t, "latest", generator.history[len(generator.history)-1].Text)
	assert.LessOrEqual(t, len(reply.Transcript), MaxTranscriptTurns)
	assert.Equal(t, RoleUser, reply.Transcript[0].Role)
}

func TestChatValidation(t *testing.T) {
	service := NewService(&recordingGenerator{reply: "ok"}, time.Second, nil)
	cases := []struct {
		name    string
		request Request
		want    error
	}{
		{name: "empty message", request: Request{Message: "   "}, want: ErrInvalidMessage},
		{name: "long message", request: Request{Message: strings.Repeat("é", MaxMessageRunes+1)}, want: ErrInvalidMessage},
		{name: "topic", request: Request{Topic: "astrology", Message: "hi"}, want: ErrInvalidTopic},
		{name: "role", request: Request{Message: "hi", Transcript: []Turn{{Role: "system", Text: "x"}}}, want: ErrInvalidTurn},
		{name: "blank turn", request: Request{Message: "hi", Transcript: []Turn{{Role: RoleUser, Text: " "}}}, want: ErrInvalidTurn},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := service.Chat(context.Background(), testCase.request)
			assert.ErrorIs(t, err, testCase.want)
		})
	}

	_, err := service.Chat(context.Background(), Request{Message: strings.Repeat("é", MaxMessageRunes)})
	assert.NoError(t, err)
}

func TestChatUnavailableAndFailed(t *testing.T) {
	_, err := NewService(nil, time.Second, nil).Chat(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrUnavailable)

	failing := NewService(&recordingGenerator{err: errors.New("quota exceeded")}, time.Second, nil)
	_, err = failing.Chat(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrFailed)

	empty := NewService(&recordingGenerator{reply: " "}, time.Second, nil)
	_, err = empty.Chat(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrFailed)
}

func TestTrimTranscriptDropsLeadingModelTurn(t *testing.T) {
	trimmed := TrimTranscript(buildTranscript(5), 4)
	require.Len(t, trimmed, 3)
	assert.Equal(t, "turn 2", trimmed[0].Text)

	assert.Empty(t, TrimTranscript([]Turn{{Role: RoleModel, Text: "hello"}}, 20))
}

func TestBuildSystemInstructionProfileFacts(t *testing.T) {
	instruction := BuildSystemInstruction(TopicNewborn, ProfileContext{HasBaby: true, BabyName: "Ada", BabyAgeMonths: 3})
	assert.Contains(t, instruction, "new parents")
	assert.Contains(t, instruction, "Ada is 3 months old")

	general := BuildSystemInstruction("unknown", ProfileContext{CyclePhase: "unknown"})
	assert.NotContains(t, general, "What you know")
}
