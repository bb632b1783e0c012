// Package advisor answers free-form questions through a generative language
// model. The chat transcript lives with the client; nothing is stored here.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	TopicPregnancy = "pregnancy"
	TopicNewborn   = "newborn"
	TopicCycle     = "cycle"
	TopicGeneral   = "general"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

const (
	MaxTranscriptTurns = 20
	MaxMessageRunes    = 2000
	DefaultTimeout     = 30 * time.Second
)

var (
	ErrUnavailable    = errors.New("advisor unavailable")
	ErrFailed         = errors.New("advisor failed")
	ErrInvalidTopic   = errors.New("invalid topic")
	ErrInvalidMessage = errors.New("invalid message")
	ErrInvalidTurn    = errors.New("invalid transcript turn")
)

type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Generator produces the next model turn for a system instruction and a
// history that ends with a user turn.
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, history []Turn) (string, error)
}

type Request struct {
	Topic      string
	Transcript []Turn
	Message    string
	Profile    ProfileContext
}

type Reply struct {
	Reply      string `json:"reply"`
	Transcript []Turn `json:"transcript"`
}

type Service struct {
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
}

func NewService(generator Generator, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{generator: generator, timeout: timeout, logger: logger.Named("advisor")}
}

func (service *Service) Enabled() bool {
	return service != nil && service.generator != nil
}

// Chat validates the request, sends the trimmed history to the generator and
// returns the reply with the new user and model turns appended.
func (service *Service) Chat(ctx context.Context, request Request) (Reply, error) {
	if !service.Enabled() {
		return Reply{}, ErrUnavailable
	}
	topic, err := NormalizeTopic(request.Topic)
	if err != nil {
		return Reply{}, err
	}
	message := strings.TrimSpace(request.Message)
	if message == "" || utf8.RuneCountInString(message) > MaxMessageRunes {
		return Reply{}, ErrInvalidMessage
	}
	if err := ValidateTranscript(request.Transcript); err != nil {
		return Reply{}, err
	}

	history := append(append([]Turn{}, request.Transcript...), Turn{Role: RoleUser, Text: message})
	history = TrimTranscript(history, MaxTranscriptTurns)

	ctx, cancel := context.WithTimeout(ctx, service.timeout)
	defer cancel()

	started := time.Now()
	text, err := service.generator.Generate(ctx, BuildSystemInstruction(topic, request.Profile), history)
	if err != nil {
		service.logger.Warn("generation failed",
			zap.String("topic", topic),
			zap.Int("turns", len(history)),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return Reply{}, fmt.Errorf("%w: %v", ErrFailed, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, fmt.Errorf("%w: empty reply", ErrFailed)
	}

	service.logger.Debug("generation finished",
		zap.String("topic", topic),
		zap.Int("turns", len(history)),
		zap.Duration("elapsed", time.Since(started)),
	)
	transcript := TrimTranscript(append(history, Turn{Role: RoleModel, Text: text}), MaxTranscriptTurns)
	return Reply{Reply: text, Transcript: transcript}, nil
}

func NormalizeTopic(raw string) (string, error) {
	topic := strings.ToLower(strings.TrimSpace(raw))
	switch topic {
	case "":
		return TopicGeneral, nil
	case TopicPregnancy, TopicNewborn, TopicCycle, TopicGeneral:
		return topic, nil
	default:
		return "", ErrInvalidTopic
	}
}

func ValidateTranscript(turns []Turn) error {
	for _, turn := range turns {
		if turn.Role != RoleUser && turn.Role != RoleModel {
			return ErrInvalidTurn
		}
		if strings.TrimSpace(turn.Text) == "" {
			return ErrInvalidTurn
		}
	}
	return nil
}

// TrimTranscript keeps the last limit turns and drops a leading model turn so
// the history always opens with the user.
func TrimTranscript(turns []Turn, limit int) []Turn {
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	for len(turns) > 0 && turns[0].Role != RoleUser {
		turns = turns[1:]
	}
	return append([]Turn{}, turns...)
}
