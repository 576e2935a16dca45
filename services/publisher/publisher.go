package publisher

// Publisher publishes scraped records to downstream consumers (value scoring,
// recommendation matching, review generation). Those consumers never reach back
// into the scraper; the published payload is the whole contract.
type Publisher interface {
	// Publish publishes a message under a key
	Publish(key string, message []byte) error

	// TrimStreams trims backing streams to their configured maximum length
	TrimStreams() error

	// Close closes the publisher
	Close() error
}
