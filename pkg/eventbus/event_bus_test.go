package eventbus

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/greekops/chapterdata/pkg/logging"
)

type memberCreated struct {
	number string
}

type productCreated struct {
	name string
}

func TestPublisher_Publish_NoMatch(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.DebugLevel)
	publisher := NewEventPublisher(log)
	publisher.Subscribe(func(e *memberCreated) {
		t.Error("should not be called")
	})
	publisher.Publish(&productCreated{name: "Chapter Mug"})

	if output := logBuffer.String(); output == "" {
		t.Error("should have logged")
	} else if !strings.Contains(output, "no matching subscribers") {
		t.Errorf("should have mentioned no matching subscribers but got: %q", output)
	}
}

func TestPublisher_Subscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	called := false
	var number string
	publisher.Subscribe(func(e *memberCreated) {
		called = true
		number = e.number
	})
	publisher.Publish(&memberCreated{number: "LM10234"})
	if !called {
		t.Error("should be called")
	}
	if number != "LM10234" {
		t.Errorf("expected: %v, got: %v", "LM10234", number)
	}
}

func TestPublisher_Unsubscribe(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	handler := func(e *memberCreated) {
		t.Error("should not be called after unsubscribe")
	}
	publisher.Subscribe(handler)
	if publisher.SubscribersCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", publisher.SubscribersCount())
	}
	publisher.Unsubscribe(handler)
	if publisher.SubscribersCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", publisher.SubscribersCount())
	}
	publisher.Publish(&memberCreated{number: "10234"})
}

func TestPublisher_HandlerPanicRecovered(t *testing.T) {
	logBuffer := bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(&logBuffer)
	log.SetLevel(logrus.ErrorLevel)
	publisher := NewEventPublisher(log)

	publisher.Subscribe(func(e *memberCreated) {
		panic("boom")
	})
	called := false
	publisher.Subscribe(func(e *memberCreated) {
		called = true
	})

	publisher.Publish(&memberCreated{number: "10234"})

	if !called {
		t.Error("later subscribers should still run after an earlier panic")
	}
	if output := logBuffer.String(); !strings.Contains(output, "panicked") {
		t.Errorf("expected panic to be logged, got: %q", output)
	}
}

func TestPublisher_Clear(t *testing.T) {
	publisher := NewEventPublisher(logging.ConsoleLogger(logrus.WarnLevel))
	publisher.Subscribe(func(e *memberCreated) {})
	publisher.Subscribe(func(e *productCreated) {})
	publisher.Clear()
	if publisher.SubscribersCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", publisher.SubscribersCount())
	}
}
