package query

import (
	"fmt"
	"sync"
)

// HostPort identifies one server to query, as supplied by the caller.
type HostPort struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Key is the "host:port" batch-result key, composed from the caller's
// original host string so results line up with the request list even when a
// hostname never resolves.
func (h HostPort) Key() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// FetchMany queries every server concurrently and returns one result per
// key. Failures are strictly per entry; a dead server never delays or taints
// the others, and total wall-clock time stays near one timeout rather than
// the sum. Duplicate keys keep whichever fetch finishes last.
func (f *Fetcher) FetchMany(servers []HostPort) map[string]Result {
	results := make(map[string]Result, len(servers))

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, s := range servers {
		wg.Add(1)
		go func(s HostPort) {
			defer wg.Done()

			res := f.Fetch(s.Host, s.Port)

			mu.Lock()
			results[s.Key()] = res
			mu.Unlock()
		}(s)
	}
	wg.Wait()

	return results
}
