package event

import (
	"sort"
	"sync"
)

// registry manages listeners organized by topic.
// It is thread-safe for concurrent access.
type registry struct {
	mu      sync.RWMutex
	byTopic map[Topic][]*Subscription
	byID    map[string]*Subscription
	cap     int
}

// newRegistry creates a registry with the given per-topic cap.
func newRegistry(cap int) *registry {
	return &registry{
		byTopic: make(map[Topic][]*Subscription),
		byID:    make(map[string]*Subscription),
		cap:     cap,
	}
}

// add registers a subscription, enforcing the per-topic cap.
func (r *registry) add(sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.byTopic[sub.topic]) >= r.cap {
		return ErrListenerLimit
	}

	r.byTopic[sub.topic] = append(r.byTopic[sub.topic], sub)
	r.byID[sub.id] = sub
	return nil
}

// remove unregisters a subscription by ID.
func (r *registry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.removeLocked(id)
}

func (r *registry) removeLocked(id string) bool {
	sub, ok := r.byID[id]
	if !ok {
		return false
	}

	subs := r.byTopic[sub.topic]
	for i, s := range subs {
		if s.id == id {
			r.byTopic[sub.topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(r.byTopic[sub.topic]) == 0 {
		delete(r.byTopic, sub.topic)
	}

	delete(r.byID, id)
	return true
}

// removeAll unregisters a batch of subscriptions by ID.
func (r *registry) removeAll(ids []string) {
	if len(ids) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.removeLocked(id)
	}
}

// snapshot returns the topic's listeners ordered for dispatch: descending
// priority, stable on registration order. The returned slice is a copy.
func (r *registry) snapshot(topic Topic) []*Subscription {
	r.mu.RLock()
	subs := r.byTopic[topic]
	if len(subs) == 0 {
		r.mu.RUnlock()
		return nil
	}
	result := make([]*Subscription, len(subs))
	copy(result, subs)
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].priority > result[j].priority
	})
	return result
}

// count returns the number of listeners for a topic.
func (r *registry) count(topic Topic) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byTopic[topic])
}

// total returns the overall listener count.
func (r *registry) total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// topics returns listener counts keyed by topic.
func (r *registry) topics() map[Topic]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[Topic]int, len(r.byTopic))
	for t, subs := range r.byTopic {
		result[t] = len(subs)
	}
	return result
}

// clear removes every subscription.
func (r *registry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byTopic = make(map[Topic][]*Subscription)
	r.byID = make(map[string]*Subscription)
}
