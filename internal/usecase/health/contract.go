package health

import "context"

// DBPinger checks search engine availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexCounter reports the size of the local index.
type IndexCounter interface {
	DocCount() int
}
