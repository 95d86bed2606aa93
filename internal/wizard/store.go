package wizard

import (
	"slices"
	"sync"

	"github.com/Maverickd18/Frontend-Perfume-sub000/internal/domain"
)

// Listener receives a private copy of the state after every accepted mutation.
// Listeners run synchronously and must not call back into the Store.
type Listener func(domain.WizardState)

type subscription struct {
	id int
	fn Listener
}

// Store owns one wizard's state. All mutations go through its methods and
// are broadcast to listeners in the order they were applied. Inputs the store
// cannot accept are ignored without emitting.
type Store struct {
	// emitMu serializes mutate+notify so listeners see mutations in order.
	emitMu sync.Mutex
	mu     sync.Mutex
	state  domain.WizardState
	subs   []subscription
	nextID int
}

// NewStore returns a closed wizard at step 1 with empty drafts.
func NewStore() *Store {
	return &Store{state: domain.NewWizardState()}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() domain.WizardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn, calls it immediately with the current state, and
// returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	snap := s.state.Clone()
	s.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.subs = slices.DeleteFunc(s.subs, func(sub subscription) bool { return sub.id == id })
		})
	}
}

// update applies fn and, if it reports a change, notifies every listener.
func (s *Store) update(fn func(st *domain.WizardState) bool) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}
	snap := s.state.Clone()
	subs := slices.Clone(s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap.Clone())
	}
}

// Open shows the wizard at step 1.
func (s *Store) Open() {
	s.update(func(st *domain.WizardState) bool {
		st.CurrentStep = domain.FirstStep
		st.IsOpen = true
		return true
	})
}

// Close hides the wizard and clears every draft. The available brand and
// category lists survive so the next Open does not refetch them.
func (s *Store) Close() error {
	var err error
	s.update(func(st *domain.WizardState) bool {
		if st.IsSaving {
			err = domain.ErrSaveInProgress
			return false
		}
		st.IsOpen = false
		st.CurrentStep = domain.FirstStep
		st.ClearDrafts()
		return true
	})
	return err
}

// Reset clears the drafts and returns to step 1 without closing. It is
// ignored while a save is running.
func (s *Store) Reset() {
	s.update(func(st *domain.WizardState) bool {
		if st.IsSaving {
			return false
		}
		st.CurrentStep = domain.FirstStep
		st.ClearDrafts()
		return true
	})
}

// GoToStep jumps to step n without validating anything. Out-of-range n is ignored.
func (s *Store) GoToStep(n int) {
	s.update(func(st *domain.WizardState) bool {
		if n < domain.FirstStep || n > domain.LastStep {
			return false
		}
		st.CurrentStep = n
		return true
	})
}

// NextStep validates the current step and advances by one when it passes.
// It returns the violations that blocked the move, if any.
func (s *Store) NextStep() []string {
	var violations []string
	s.update(func(st *domain.WizardState) bool {
		violations = ValidateStep(*st, st.CurrentStep)
		if len(violations) > 0 || st.CurrentStep >= domain.LastStep {
			return false
		}
		st.CurrentStep++
		return true
	})
	return violations
}

// PreviousStep moves back by one, stopping at step 1.
func (s *Store) PreviousStep() {
	s.update(func(st *domain.WizardState) bool {
		if st.CurrentStep <= domain.FirstStep {
			return false
		}
		st.CurrentStep--
		return true
	})
}

func (s *Store) UpdateItemDraft(p domain.ItemDraftPatch) {
	s.update(func(st *domain.WizardState) bool {
		st.Item.Apply(p)
		return true
	})
}

func (s *Store) UpdateNewBrand(p domain.BrandDraftPatch) {
	s.update(func(st *domain.WizardState) bool {
		st.NewBrand.Apply(p)
		return true
	})
}

func (s *Store) UpdateNewCategory(p domain.CategoryDraftPatch) {
	s.update(func(st *domain.WizardState) bool {
		st.NewCategory.Apply(p)
		return true
	})
}

// SetItemImage attaches img to the item draft; nil removes it.
func (s *Store) SetItemImage(img *domain.Image) {
	s.update(func(st *domain.WizardState) bool {
		st.ItemImage = copyImage(img)
		return true
	})
}

func (s *Store) SetBrandImage(img *domain.Image) {
	s.update(func(st *domain.WizardState) bool {
		st.NewBrand.Image = copyImage(img)
		return true
	})
}

func (s *Store) SetCategoryImage(img *domain.Image) {
	s.update(func(st *domain.WizardState) bool {
		st.NewCategory.Image = copyImage(img)
		return true
	})
}

// SelectBrand picks an existing brand. Ids not in the available list are ignored.
func (s *Store) SelectBrand(id int64) {
	s.update(func(st *domain.WizardState) bool {
		if !st.HasBrand(id) {
			return false
		}
		st.SelectedBrandID = &id
		return true
	})
}

// SelectCategory picks an existing category. Ids not in the available list are ignored.
func (s *Store) SelectCategory(id int64) {
	s.update(func(st *domain.WizardState) bool {
		if !st.HasCategory(id) {
			return false
		}
		st.SelectedCategoryID = &id
		return true
	})
}

func (s *Store) UseExistingBrand(v bool) {
	s.update(func(st *domain.WizardState) bool {
		st.UseExistingBrand = v
		return true
	})
}

func (s *Store) UseExistingCategory(v bool) {
	s.update(func(st *domain.WizardState) bool {
		st.UseExistingCategory = v
		return true
	})
}

// SetAvailableBrands replaces the brand list, dropping a selection that is no
// longer in it.
func (s *Store) SetAvailableBrands(brands []domain.Brand) {
	s.update(func(st *domain.WizardState) bool {
		st.AvailableBrands = append([]domain.Brand{}, brands...)
		if st.SelectedBrandID != nil && !st.HasBrand(*st.SelectedBrandID) {
			st.SelectedBrandID = nil
		}
		return true
	})
}

// SetAvailableCategories replaces the category list, dropping a selection
// that is no longer in it.
func (s *Store) SetAvailableCategories(categories []domain.Category) {
	s.update(func(st *domain.WizardState) bool {
		st.AvailableCategories = append([]domain.Category{}, categories...)
		if st.SelectedCategoryID != nil && !st.HasCategory(*st.SelectedCategoryID) {
			st.SelectedCategoryID = nil
		}
		return true
	})
}

// AddBrandToAvailable appends b unless a brand with the same id is listed.
func (s *Store) AddBrandToAvailable(b domain.Brand) {
	s.update(func(st *domain.WizardState) bool {
		if st.HasBrand(b.ID) {
			return false
		}
		st.AvailableBrands = append(st.AvailableBrands, b)
		return true
	})
}

// AddCategoryToAvailable appends c unless a category with the same id is listed.
func (s *Store) AddCategoryToAvailable(c domain.Category) {
	s.update(func(st *domain.WizardState) bool {
		if st.HasCategory(c.ID) {
			return false
		}
		st.AvailableCategories = append(st.AvailableCategories, c)
		return true
	})
}

func (s *Store) SetStoreCreated(v bool) {
	s.update(func(st *domain.WizardState) bool {
		st.StoreCreated = v
		return true
	})
}

// BeginSave marks a save as running and returns the snapshot it must work
// from. Only one save may run per store.
func (s *Store) BeginSave() (domain.WizardState, error) {
	var (
		snap domain.WizardState
		err  error
	)
	s.update(func(st *domain.WizardState) bool {
		switch {
		case !st.IsOpen:
			err = domain.ErrWizardClosed
			return false
		case st.IsSaving:
			err = domain.ErrSaveInProgress
			return false
		}
		st.IsSaving = true
		snap = st.Clone()
		return true
	})
	return snap, err
}

// EndSave clears the saving flag. A successful save also clears the drafts
// and closes the wizard; a failed one leaves the drafts for a retry.
func (s *Store) EndSave(succeeded bool) {
	s.update(func(st *domain.WizardState) bool {
		if !st.IsSaving {
			return false
		}
		st.IsSaving = false
		if succeeded {
			st.ClearDrafts()
			st.CurrentStep = domain.FirstStep
			st.IsOpen = false
		}
		return true
	})
}

func copyImage(img *domain.Image) *domain.Image {
	if img == nil {
		return nil
	}
	c := *img
	c.Data = slices.Clone(img.Data)
	return &c
}
