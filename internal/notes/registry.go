package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"voxelcraft.ai/areas/internal/area"
	"voxelcraft.ai/areas/internal/flags"
)

type Options struct {
	Store Store
	Audit Auditor
	Log   *log.Logger
	Clock func() time.Time
}

// Registry maps note names to areas. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	notes map[string]area.Area

	store Store
	audit Auditor
	log   *log.Logger
	now   func() time.Time
}

func NewRegistry(opts Options) *Registry {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Registry{
		notes: map[string]area.Area{},
		store: opts.Store,
		audit: opts.Audit,
		log:   opts.Log,
		now:   now,
	}
}

func (r *Registry) logf(format string, args ...any) {
	if r.log != nil {
		r.log.Printf(format, args...)
	}
}

// Note registers a deep copy of a under name with a fresh, empty flag store
// and returns the noted copy. An existing note of that name is replaced.
func (r *Registry) Note(ctx context.Context, a area.Area, name string) (area.Area, error) {
	key := area.NormalizeName(name)
	if key == "" {
		return area.Area{}, ErrEmptyName
	}
	if !a.Valid() {
		return area.Area{}, ErrInvalid
	}
	noted := a.Clone()
	noted.BindIdentity(key, r.newFlags(key))

	r.mu.Lock()
	old, replaced := r.notes[key]
	r.notes[key] = noted
	n := len(r.notes)
	r.mu.Unlock()
	notesGauge.Set(float64(n))

	if replaced {
		if fl, _ := old.Flags(); fl != nil {
			fl.OnChange(nil)
		}
		r.logf("notes: replaced %s", key)
	}
	r.emit(ActionNote, key, noted.String(), "")
	if err := r.save(ctx, noted); err != nil {
		return noted, err
	}
	return noted, nil
}

func (r *Registry) newFlags(name string) *flags.Store {
	fl := flags.New(r.now)
	r.watchFlags(name, fl)
	return fl
}

func (r *Registry) watchFlags(name string, fl *flags.Store) {
	fl.OnChange(func(key string, removed bool) {
		action := ActionFlag
		if removed {
			action = ActionUnflag
		}
		r.emit(action, name, "", key)
		a, ok := r.Lookup(name)
		if !ok {
			return
		}
		if err := r.save(context.Background(), a); err != nil {
			r.logf("notes: persist flags of %s: %v", name, err)
		}
	})
}

// Forget removes a's note and clears the identity on a itself; the value
// stays usable as a plain area.
func (r *Registry) Forget(ctx context.Context, a *area.Area) error {
	key := a.Name()
	if key == "" {
		return ErrNotFound
	}
	r.mu.Lock()
	cur, ok := r.notes[key]
	delete(r.notes, key)
	n := len(r.notes)
	r.mu.Unlock()
	notesGauge.Set(float64(n))

	a.ClearIdentity()
	if !ok {
		return ErrNotFound
	}
	if fl, _ := cur.Flags(); fl != nil {
		fl.OnChange(nil)
	}
	r.emit(ActionForget, key, cur.String(), "")
	if r.store != nil {
		if err := r.store.DeleteNote(ctx, key); err != nil {
			return fmt.Errorf("notes: delete %s: %w", key, err)
		}
	}
	return nil
}

func (r *Registry) Lookup(name string) (area.Area, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.notes[area.NormalizeName(name)]
	return a, ok
}

// Names lists note names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.notes))
	for k := range r.notes {
		names = append(names, k)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.notes)
}

// Update edits a note in place: fn receives the current members as a plain
// value and returns the replacement, which keeps the note's name and flags.
// fn runs under the registry lock and must not call back into r.
func (r *Registry) Update(ctx context.Context, name string, fn func(area.Area) (area.Area, error)) (area.Area, error) {
	key := area.NormalizeName(name)
	r.mu.Lock()
	cur, ok := r.notes[key]
	if !ok {
		r.mu.Unlock()
		return area.Area{}, ErrNotFound
	}
	next, err := fn(cur.Clone())
	if err != nil {
		r.mu.Unlock()
		return cur, err
	}
	if !next.Valid() {
		r.mu.Unlock()
		return cur, ErrInvalid
	}
	fl, _ := cur.Flags()
	next = next.Clone()
	next.BindIdentity(key, fl)
	r.notes[key] = next
	r.mu.Unlock()

	r.emit(ActionUpdate, key, next.String(), "")
	if err := r.save(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}

// Resolve returns the note called text, or parses text as an encoding.
func (r *Registry) Resolve(text string, rep area.Reporter) (area.Area, bool) {
	if a, ok := r.Lookup(text); ok {
		return a, true
	}
	return area.Parse(text, rep)
}

// Records returns the durable form of every note, sorted by name.
func (r *Registry) Records() ([]Record, error) {
	r.mu.RLock()
	notes := make([]area.Area, 0, len(r.notes))
	for _, a := range r.notes {
		notes = append(notes, a)
	}
	r.mu.RUnlock()
	sort.Slice(notes, func(i, j int) bool { return notes[i].Name() < notes[j].Name() })

	out := make([]Record, 0, len(notes))
	for _, a := range notes {
		rec, err := r.record(a)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *Registry) record(a area.Area) (Record, error) {
	rec := Record{Name: a.Name(), Encoding: a.String(), UpdatedAt: r.now().UTC()}
	if fl, _ := a.Flags(); fl != nil {
		b, err := json.Marshal(fl)
		if err != nil {
			return rec, fmt.Errorf("notes: encode flags of %s: %w", a.Name(), err)
		}
		rec.Flags = b
	}
	return rec, nil
}

// Load adds every record from the store on top of the current notes. Records
// that fail to parse are reported and skipped.
func (r *Registry) Load(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	recs, err := r.store.LoadNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("notes: load: %w", err)
	}
	return r.install(recs), nil
}

// Restore adds records (e.g. from a snapshot) and writes them to the store.
func (r *Registry) Restore(ctx context.Context, recs []Record) (int, error) {
	n := r.install(recs)
	for _, rec := range recs {
		a, ok := r.Lookup(rec.Name)
		if !ok {
			continue
		}
		if err := r.save(ctx, a); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (r *Registry) install(recs []Record) int {
	n := 0
	for _, rec := range recs {
		key := area.NormalizeName(rec.Name)
		if key == "" {
			r.logf("notes: skipping record with empty name")
			continue
		}
		a, ok := area.Parse(rec.Encoding, r.reporter())
		if !ok {
			r.logf("notes: skipping %s: bad encoding %q", key, rec.Encoding)
			continue
		}
		fl := flags.New(r.now)
		if len(rec.Flags) > 0 {
			if err := json.Unmarshal(rec.Flags, fl); err != nil {
				r.logf("notes: %s: dropping unreadable flags: %v", key, err)
				fl = flags.New(r.now)
			}
		}
		r.watchFlags(key, fl)
		a.BindIdentity(key, fl)
		r.mu.Lock()
		r.notes[key] = a
		r.mu.Unlock()
		n++
	}
	notesGauge.Set(float64(r.Len()))
	return n
}

func (r *Registry) reporter() area.Reporter {
	if r.log == nil {
		return nil
	}
	return r.log
}

func (r *Registry) save(ctx context.Context, a area.Area) error {
	if r.store == nil {
		return nil
	}
	rec, err := r.record(a)
	if err != nil {
		return err
	}
	if err := r.store.SaveNote(ctx, rec); err != nil {
		return fmt.Errorf("notes: save %s: %w", a.Name(), err)
	}
	return nil
}

func (r *Registry) emit(action, name, encoding, key string) {
	if r.audit == nil {
		return
	}
	ev := Event{Time: r.now().UTC(), Action: action, Name: name, Encoding: encoding, Key: key}
	if err := r.audit.WriteNoteEvent(ev); err != nil {
		r.logf("notes: audit %s %s: %v", action, name, err)
	}
}
