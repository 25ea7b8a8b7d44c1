package snapshot

import "time"

// Meta describes the request a snapshot was collected for.
type Meta struct {
	ID       string    `json:"id"`
	Datetime time.Time `json:"datetime"`
	Method   string    `json:"method"`
	URI      string    `json:"uri"`
	IP       string    `json:"ip,omitempty"`
}

// Snapshot is the collected debug data of one request keyed by collector
// name.
type Snapshot struct {
	ID   string                    `json:"id"`
	Meta Meta                      `json:"meta"`
	Data map[string]map[string]any `json:"data"`
}

// Filter narrows Find results. Zero values match everything.
type Filter struct {
	Method string
	URI    string
	IP     string
	// Limit caps the number of results; zero means no limit.
	Limit int
}

func (f Filter) matches(meta Meta) bool {
	if f.Method != "" && f.Method != meta.Method {
		return false
	}
	if f.URI != "" && f.URI != meta.URI {
		return false
	}
	if f.IP != "" && f.IP != meta.IP {
		return false
	}
	return true
}
