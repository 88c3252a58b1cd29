package binding

import (
	"fmt"
	"log/slog"

	"github.com/thoreinstein/cfgsync/internal/errors"
	"github.com/thoreinstein/cfgsync/internal/logging"
	"github.com/thoreinstein/cfgsync/pkg/coerce"
	"github.com/thoreinstein/cfgsync/pkg/comment"
	"github.com/thoreinstein/cfgsync/pkg/store"
)

// Synchronizer runs load and save passes. It keeps no state between
// passes and may be reused, but not for concurrent passes on one store.
type Synchronizer struct {
	logger *slog.Logger
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithLogger sets the logger for per-field debug records.
func WithLogger(logger *slog.Logger) SyncOption {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSynchronizer creates a Synchronizer. Without WithLogger it logs nothing.
func NewSynchronizer(opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{logger: logging.NewDiscard()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load runs a load pass with a default Synchronizer.
func Load(st store.Section, set *Set) error {
	return NewSynchronizer().Load(st, set)
}

// Save runs a save pass with a default Synchronizer.
func Save(st store.Section, set *Set) error {
	return NewSynchronizer().Save(st, set)
}

// Load reads every bound field from st, seeding st where values or
// sections are missing.
func (s *Synchronizer) Load(st store.Section, set *Set) error {
	if st == nil || set == nil {
		return errors.Wrap(ErrInvalidBinding, "load needs a store and a binding set")
	}
	for _, b := range set.bindings {
		var err error
		if b.IsSection() {
			err = s.loadSection(st, b)
		} else {
			err = s.loadScalar(st, b)
		}
		if err != nil {
			return err
		}
	}
	s.logger.Debug("load pass complete", "store", st.Path(), "bindings", len(set.bindings))
	return nil
}

// Save writes every bound field into st.
func (s *Synchronizer) Save(st store.Section, set *Set) error {
	if st == nil || set == nil {
		return errors.Wrap(ErrInvalidBinding, "save needs a store and a binding set")
	}
	for _, b := range set.bindings {
		var err error
		if b.IsSection() {
			err = s.saveSection(st, b)
		} else {
			err = s.saveScalar(st, b)
		}
		if err != nil {
			return err
		}
	}
	s.logger.Debug("save pass complete", "store", st.Path(), "bindings", len(set.bindings))
	return nil
}

func (s *Synchronizer) loadScalar(st store.Section, b Binding) error {
	if raw, ok := present(st, b.Path); ok {
		v, ok := coerce.Coerce(raw, b.Value.Kind())
		if ok {
			if err := b.Value.Set(v); err != nil {
				return accessError(b.Field, PhaseLoadScalar, err)
			}
			s.logger.Debug("loaded value", "field", b.Field, "path", b.Path)
		} else {
			s.logger.Debug("coercion miss", "field", b.Field, "path", b.Path,
				"kind", b.Value.Kind().String(), "stored", fmt.Sprintf("%T", raw))
		}
	} else {
		current, err := b.Value.Get()
		if err != nil {
			return accessError(b.Field, PhaseLoadScalar, err)
		}
		if err := st.Set(b.Path, current); err != nil {
			return accessError(b.Field, PhaseLoadScalar, err)
		}
		s.logger.Debug("seeded missing value", "field", b.Field, "path", b.Path)
	}

	if err := comment.Apply(st, b.Path, b.Comment); err != nil {
		return accessError(b.Field, PhaseLoadScalar, err)
	}
	return nil
}

func (s *Synchronizer) loadSection(st store.Section, b Binding) error {
	if _, ok := present(st, b.Name); ok {
		section, ok := st.Section(b.Name)
		if !ok {
			return accessError(b.Field, PhaseLoadSection, errors.Wrapf(ErrNotSection, "%q", b.Name))
		}
		if err := b.Value.Set(section); err != nil {
			return accessError(b.Field, PhaseLoadSection, err)
		}
		s.logger.Debug("loaded section", "field", b.Field, "section", b.Name)
	} else {
		section, err := st.CreateSection(b.Name)
		if err != nil {
			return accessError(b.Field, PhaseSectionSeed, err)
		}
		if err := s.applySeeds(st, b, PhaseSectionSeed); err != nil {
			return err
		}
		if err := b.Value.Set(section); err != nil {
			return accessError(b.Field, PhaseSectionSeed, err)
		}
		s.logger.Debug("created section", "field", b.Field, "section", b.Name, "seeds", len(b.Seeds))
	}

	if err := comment.Apply(st, b.Name, b.Comment); err != nil {
		return accessError(b.Field, PhaseLoadSection, err)
	}
	return nil
}

func (s *Synchronizer) saveScalar(st store.Section, b Binding) error {
	current, err := b.Value.Get()
	if err != nil {
		return accessError(b.Field, PhaseSaveScalar, err)
	}
	if err := st.Set(b.Path, current); err != nil {
		return accessError(b.Field, PhaseSaveScalar, err)
	}
	if err := comment.Apply(st, b.Path, b.Comment); err != nil {
		return accessError(b.Field, PhaseSaveScalar, err)
	}
	return nil
}

func (s *Synchronizer) saveSection(st store.Section, b Binding) error {
	current, err := b.Value.Get()
	if err != nil {
		return accessError(b.Field, PhaseSaveSection, err)
	}
	// Taken before CreateSection, which may detach it from st
	previous, _ := current.(store.Section)

	if _, err := st.CreateSection(b.Name); err != nil {
		return accessError(b.Field, PhaseSaveSection, err)
	}
	if previous != nil {
		if err := s.copySection(st, b.Name, previous); err != nil {
			return accessError(b.Field, PhaseSaveSection, err)
		}
	} else {
		s.logger.Debug("no section handle to copy", "field", b.Field, "section", b.Name)
	}
	if err := s.applySeeds(st, b, PhaseSaveSection); err != nil {
		return err
	}
	if err := comment.Apply(st, b.Name, b.Comment); err != nil {
		return accessError(b.Field, PhaseSaveSection, err)
	}
	return nil
}

// applySeeds writes each seed of b under its section, attaching the seed's
// comment right after its value.
func (s *Synchronizer) applySeeds(st store.Section, b Binding, phase Phase) error {
	for _, seed := range b.Seeds {
		path := store.Join(b.Name, seed.Key)
		v, ok := seed.value()
		if !ok {
			s.logger.Debug("coercion miss", "field", b.Field, "path", path, "kind", seed.Type.String())
			continue
		}
		if err := st.Set(path, v); err != nil {
			return accessError(b.Field, phase, err)
		}
		if err := comment.Apply(st, path, seed.Comment); err != nil {
			return accessError(b.Field, phase, err)
		}
	}
	return nil
}

// copySection copies every key of src under name in dst, parents first.
// Values are copied as stored; nested sections are recreated empty and
// filled by their own keys.
func (s *Synchronizer) copySection(dst store.Section, name string, src store.Section) error {
	for _, key := range src.Keys(true) {
		v, ok := src.Get(key)
		if !ok {
			// Keys that contain a dot cannot be addressed by path
			s.logger.Debug("skipped key", "section", name, "key", key)
			continue
		}
		path := store.Join(name, key)
		if _, isSection := v.(store.Section); isSection {
			if _, err := dst.CreateSection(path); err != nil {
				return err
			}
		} else if err := dst.Set(path, v); err != nil {
			return err
		}
		if err := comment.Attach(dst, path, src.Comment(key)); err != nil {
			return err
		}
		if err := comment.AttachInline(dst, path, src.InlineComment(key)); err != nil {
			return err
		}
	}
	return nil
}

// present returns the value at path unless the key is missing or null. A
// null key is treated as absent so that it gets seeded.
func present(st store.Section, path string) (any, bool) {
	v, ok := st.Get(path)
	return v, ok && v != nil
}
