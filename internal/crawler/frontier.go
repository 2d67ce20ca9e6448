package crawler

// frontier is the bounded FIFO of URLs pending fetch plus the set of URLs
// already taken. Bounding the pending queue keeps memory flat on
// pathological sites that link to everything.
type frontier struct {
	queue    []string
	enqueued map[string]struct{}
	visited  map[string]struct{}
	capacity int
}

func newFrontier(capacity int) *frontier {
	if capacity <= 0 {
		capacity = defaultFrontierCapacity
	}
	return &frontier{
		enqueued: make(map[string]struct{}),
		visited:  make(map[string]struct{}),
		capacity: capacity,
	}
}

// push enqueues url unless it was already seen or the queue is at capacity.
func (f *frontier) push(url string) bool {
	if url == "" {
		return false
	}
	if len(f.queue) >= f.capacity {
		return false
	}
	if _, ok := f.enqueued[url]; ok {
		return false
	}
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.enqueued[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// pop removes and returns the head of the queue, marking it visited.
// Breadth-first order falls out of strict FIFO here.
func (f *frontier) pop() (string, bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.enqueued, url)
	f.visited[url] = struct{}{}
	return url, true
}

func (f *frontier) pending() int { return len(f.queue) }

func (f *frontier) visitedCount() int { return len(f.visited) }
