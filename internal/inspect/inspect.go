// Package inspect prints stored debug snapshots for the command line.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/goliatone/go-debugbar/pkg/snapshot"
)

// ErrNoSnapshots is returned when an interactive pick finds nothing stored.
var ErrNoSnapshots = errors.New("inspect: no stored snapshots")

// Request selects what to print. An empty ID or Collectors list is resolved
// through the prompt driver when one is configured.
type Request struct {
	ID         string
	Collectors []string
	Filter     snapshot.Filter
}

// Inspector loads snapshots from a store and writes the selected collector
// data as indented JSON.
type Inspector struct {
	store  snapshot.Store
	prompt PromptDriver
	out    io.Writer
}

// New builds an inspector. A nil prompt disables interactive selection:
// the newest snapshot and every collector are used.
func New(store snapshot.Store, prompt PromptDriver, out io.Writer) *Inspector {
	return &Inspector{store: store, prompt: prompt, out: out}
}

// Run prints the requested collectors of one snapshot.
func (i *Inspector) Run(ctx context.Context, req Request) error {
	id := req.ID
	if id == "" {
		picked, err := i.pickSnapshot(ctx, req.Filter)
		if err != nil {
			return err
		}
		id = picked
	}

	snap, err := i.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("inspect: load %s: %w", id, err)
	}

	names := req.Collectors
	if len(names) == 0 {
		names, err = i.pickCollectors(ctx, snap)
		if err != nil {
			return err
		}
	}

	out := make(map[string]map[string]any, len(names))
	for _, name := range names {
		data, ok := snap.Data[name]
		if !ok {
			return fmt.Errorf("inspect: snapshot %s has no collector %q", id, name)
		}
		out[name] = data
	}

	enc := json.NewEncoder(i.out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"meta": snap.Meta,
		"data": out,
	})
}

// List writes one line per stored snapshot, newest first.
func (i *Inspector) List(ctx context.Context, filter snapshot.Filter) error {
	metas, err := i.store.Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("inspect: list: %w", err)
	}
	for _, meta := range metas {
		if _, err := fmt.Fprintln(i.out, describe(meta)); err != nil {
			return err
		}
	}
	return nil
}

func (i *Inspector) pickSnapshot(ctx context.Context, filter snapshot.Filter) (string, error) {
	metas, err := i.store.Find(ctx, filter)
	if err != nil {
		return "", fmt.Errorf("inspect: list: %w", err)
	}
	if len(metas) == 0 {
		return "", ErrNoSnapshots
	}
	if i.prompt == nil {
		return metas[0].ID, nil
	}

	options := make([]string, len(metas))
	for idx, meta := range metas {
		options[idx] = describe(meta)
	}
	idx, err := i.prompt.Select(ctx, SelectConfig{
		Message:  "Snapshot",
		Options:  options,
		PageSize: 15,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(metas) {
		return "", fmt.Errorf("inspect: invalid snapshot selection %d", idx)
	}
	return metas[idx].ID, nil
}

func (i *Inspector) pickCollectors(ctx context.Context, snap snapshot.Snapshot) ([]string, error) {
	names := make([]string, 0, len(snap.Data))
	for name := range snap.Data {
		names = append(names, name)
	}
	sort.Strings(names)
	if i.prompt == nil || len(names) <= 1 {
		return names, nil
	}

	defaults := make([]int, len(names))
	for idx := range names {
		defaults[idx] = idx
	}
	picked, err := i.prompt.MultiSelect(ctx, SelectConfig{
		Message:  "Collectors",
		Options:  names,
		Defaults: defaults,
	})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(picked))
	for _, idx := range picked {
		if idx >= 0 && idx < len(names) {
			out = append(out, names[idx])
		}
	}
	return out, nil
}

func describe(meta snapshot.Meta) string {
	return fmt.Sprintf("%s  %s %s  %s", meta.ID, meta.Method, meta.URI, meta.Datetime.Format(time.RFC3339))
}
