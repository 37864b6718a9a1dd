package services

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/backsoul/quizgate/pkg/extractor"
	"github.com/backsoul/quizgate/pkg/models"
	"github.com/backsoul/quizgate/pkg/quiz"
	"github.com/backsoul/quizgate/pkg/store"
)

const exampleBank = `中国的首都是哪里？
A. 上海
B. 北京
C. 广州
#B

1+1 等于几？
A. 1
B. 2
#B

水的化学式是什么？
A. H2O
B. CO2
#A`

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type broadcast struct {
	Type string
	Data interface{}
}

type recordingNotifier struct {
	mu       sync.Mutex
	messages []broadcast
}

func (n *recordingNotifier) BroadcastMessage(msgType string, data interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, broadcast{Type: msgType, Data: data})
}

func (n *recordingNotifier) ofType(msgType string) []broadcast {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []broadcast
	for _, m := range n.messages {
		if m.Type == msgType {
			out = append(out, m)
		}
	}
	return out
}

type stubExtractor struct {
	text  string
	err   error
	calls int
}

func (e *stubExtractor) Extract(_ context.Context, _ extractor.Input) (string, error) {
	e.calls++
	return e.text, e.err
}

func defaultSettings() models.Settings {
	return models.Settings{SourceText: exampleBank, RewardCode: "884512", RequiredCount: 3}
}

func newTestService(s store.Store, clock *fakeClock, notifier Notifier) *QuizService {
	opts := QuizOptions{
		Store:    s,
		Defaults: defaultSettings(),
		Cooldown: 60 * time.Second,
		Now:      clock.Now,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	}
	if notifier != nil {
		opts.Notifier = notifier
	}
	return NewQuizService(opts)
}

// optionFor devuelve la opción correcta (o una incorrecta) para la pregunta mostrada
func optionFor(svc *QuizService, view models.QuestionView, correct bool) string {
	for _, q := range svc.Questions() {
		if q.ID != view.ID {
			continue
		}
		for _, opt := range q.Options {
			if quiz.IsCorrect(q, opt) == correct {
				return opt
			}
		}
	}
	return ""
}
