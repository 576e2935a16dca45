package worker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"gamehound/dealscraper/internal/scraper"
	"gamehound/dealscraper/services/publisher"

	"github.com/stretchr/testify/assert"
)

// MockScraper implements CategoryScraper for testing
type MockScraper struct {
	results map[string]*scraper.CategoryResult
}

var _ CategoryScraper = (*MockScraper)(nil)

func (m *MockScraper) ScrapeCategory(category string, maxItems int, includeDetails bool) *scraper.CategoryResult {
	if result, ok := m.results[category]; ok {
		return result
	}
	return &scraper.CategoryResult{Category: category, Error: "unknown category"}
}

// MockPublisher implements the publisher.Publisher interface for testing
type MockPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
	trimmed  int
}

var _ publisher.Publisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		messages: make(map[string][][]byte),
	}
}

func (m *MockPublisher) Publish(key string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	m.messages[key] = append(m.messages[key], messageCopy)
	return nil
}

func (m *MockPublisher) TrimStreams() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trimmed++
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

func TestWorkerScrapeAndPublish(t *testing.T) {
	mockScraper := &MockScraper{
		results: map[string]*scraper.CategoryResult{
			"deals": {
				Success:  true,
				Category: "deals",
				Games: []scraper.GameStub{
					{Title: "Celeste", CurrentPrice: "4,79 zł", Discount: "-90%"},
					{Title: "Hades", CurrentPrice: "49,99 zł"},
				},
			},
		},
	}
	mockPublisher := NewMockPublisher()

	w := NewWorker(context.Background(), mockScraper, mockPublisher, []string{"deals"}, 30, false, time.Minute)
	w.scrapeAndPublish("deals")

	assert.Len(t, mockPublisher.messages["deals"], 2)

	var stub scraper.GameStub
	err := json.Unmarshal(mockPublisher.messages["deals"][0], &stub)
	assert.NoError(t, err)
	assert.Equal(t, "Celeste", stub.Title)
	assert.Equal(t, "4,79 zł", stub.CurrentPrice)
}

func TestWorkerFailedCategoryDoesNotPublish(t *testing.T) {
	mockScraper := &MockScraper{
		results: map[string]*scraper.CategoryResult{
			"deals": {Category: "deals", Error: "fetch failed"},
		},
	}
	mockPublisher := NewMockPublisher()

	w := NewWorker(context.Background(), mockScraper, mockPublisher, []string{"deals"}, 30, false, time.Minute)
	w.scrapeAndPublish("deals")

	assert.Empty(t, mockPublisher.messages)
}

func TestWorkerRunCycle(t *testing.T) {
	mockScraper := &MockScraper{
		results: map[string]*scraper.CategoryResult{
			"deals": {
				Success:  true,
				Category: "deals",
				Games:    []scraper.GameStub{{Title: "Celeste"}},
			},
			"free": {
				Success:  true,
				Category: "free",
				Games:    []scraper.GameStub{{Title: "Warframe"}},
			},
			// The broken category must not stop the others from publishing.
			"broken": {Category: "broken", Error: "boom"},
		},
	}
	mockPublisher := NewMockPublisher()

	w := NewWorker(context.Background(), mockScraper, mockPublisher, []string{"deals", "free", "broken"}, 30, false, time.Minute)
	w.runCycle()

	assert.Len(t, mockPublisher.messages["deals"], 1)
	assert.Len(t, mockPublisher.messages["free"], 1)
	assert.NotContains(t, mockPublisher.messages, "broken")
	assert.Equal(t, 1, mockPublisher.trimmed)
}

func TestWorkerStartStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mockScraper := &MockScraper{results: map[string]*scraper.CategoryResult{}}
	mockPublisher := NewMockPublisher()

	w := NewWorker(ctx, mockScraper, mockPublisher, nil, 30, false, time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- w.Start()
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
