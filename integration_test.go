package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"gamehound/dealscraper/helpers"
	"gamehound/dealscraper/internal/scraper"
	"gamehound/dealscraper/services/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Listing and detail pages mimicking the target site's markup
const listingHTML = `
<!DOCTYPE html>
<html>
<body>
	<div class="game-grid">
		<div class="game-card">
			<div class="game-card-title"><a href="/game/celeste/">Celeste</a></div>
			<span class="price-inner"><span class="numeric">7,49 zł</span></span>
			<span class="discount-badge">-90%</span>
		</div>
		<div class="game-card">
			<div class="game-card-title"><a href="/game/hades/">Hades</a></div>
			<span class="price-inner"><span class="numeric">49,99 zł</span></span>
		</div>
	</div>
</body>
</html>
`

const searchHTML = `
<!DOCTYPE html>
<html>
<body>
	<a class="search-results-title" href="/game/celeste/">Celeste</a>
</body>
</html>
`

const detailHTML = `
<!DOCTYPE html>
<html>
<body>
	<h1 class="game-title">Celeste</h1>
	<div class="game-info-details">
		<div class="game-details-row"><span class="details-label">MSRP:</span> 72,99 zł</div>
		<div class="game-details-row"><span class="details-label">Release date:</span>PS4, SwitchJanuary 25, 2018</div>
		<div class="game-details-row"><span class="details-label">Genre:</span><a href="/games/genre/platformer/">Platformer</a></div>
	</div>
	<table class="game-prices"><tbody>
		<tr><td><a class="price-button"><span class="price-inner">7,49 zł</span></a></td></tr>
	</tbody></table>
</body>
</html>
`

// collectingPublisher records published messages in memory
type collectingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func newCollectingPublisher() *collectingPublisher {
	return &collectingPublisher{messages: make(map[string][][]byte)}
}

func (p *collectingPublisher) Publish(key string, message []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	messageCopy := make([]byte, len(message))
	copy(messageCopy, message)
	p.messages[key] = append(p.messages[key], messageCopy)
	return nil
}

func (p *collectingPublisher) TrimStreams() error { return nil }
func (p *collectingPublisher) Close() error       { return nil }

// newSiteServer serves the fixture pages on the paths the scraper expects
func newSiteServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/deals/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/games/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchHTML))
	})
	mux.HandleFunc("/game/celeste/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(detailHTML))
	})
	return httptest.NewServer(mux)
}

func TestScraperAgainstTestServer(t *testing.T) {
	server := newSiteServer()
	defer server.Close()

	s := &scraper.Scraper{
		BaseURL:    server.URL,
		SearchPath: "/games/?title=",
		Fetch:      helpers.FetchWithBrowserHeaders,
		Enricher:   scraper.SequentialExecutor{},
	}

	result := s.ScrapeCategory("deals", 10, false)
	require.True(t, result.Success)
	require.Len(t, result.Games, 2)
	assert.Equal(t, "Celeste", result.Games[0].Title)
	assert.Equal(t, "7,49 zł", result.Games[0].CurrentPrice)
	assert.Equal(t, "-90%", result.Games[0].Discount)

	detail := s.FetchGameData("Celeste")
	require.True(t, detail.Success)
	assert.Equal(t, "Celeste", detail.Game.Title)
	assert.Equal(t, "72,99 zł", detail.Game.MSRP.String())
	assert.Equal(t, map[string]string{
		"PS4":    "January 25, 2018",
		"Switch": "January 25, 2018",
	}, detail.Game.ReleaseDates.Platforms)
}

func TestWorkerEndToEnd(t *testing.T) {
	server := newSiteServer()
	defer server.Close()

	s := &scraper.Scraper{
		BaseURL:    server.URL,
		SearchPath: "/games/?title=",
		Fetch:      helpers.FetchWithBrowserHeaders,
		Enricher:   scraper.SequentialExecutor{},
	}
	pub := newCollectingPublisher()

	ctx, cancel := context.WithCancel(context.Background())
	w := worker.NewWorker(ctx, s, pub, []string{"deals"}, 10, false, time.Hour)

	done := make(chan error, 1)
	go func() {
		done <- w.Start()
	}()

	// The first cycle runs immediately; give it a moment, then stop the worker.
	assert.Eventually(t, func() bool {
		pub.mu.Lock()
		defer pub.mu.Unlock()
		return len(pub.messages["deals"]) == 2
	}, 5*time.Second, 50*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	var stub scraper.GameStub
	require.NoError(t, json.Unmarshal(pub.messages["deals"][0], &stub))
	assert.Equal(t, "Celeste", stub.Title)
	assert.Equal(t, server.URL+"/game/celeste/", stub.GameURL)
}
