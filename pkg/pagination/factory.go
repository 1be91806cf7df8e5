package pagination

import (
	"fmt"
	"sort"
	"sync"

	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/errors"
)

// Creator builds a Pager or errors on bad options.
type Creator func(builder RequestBuilder, pageSize int) (Pager, error)

// Factory holds a registry of Pager creators.
type Factory struct {
	mu       sync.RWMutex
	registry map[config.PaginationType]Creator
}

// NewFactory returns an empty Factory.
func NewFactory() *Factory {
	return &Factory{
		registry: make(map[config.PaginationType]Creator),
	}
}

// RegisterPager adds a new Pager creator.
// It errors if something is already registered
func (f *Factory) RegisterPager(kind config.PaginationType, creator Creator) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.registry[kind]; exists {
		return errors.WrapError(
			fmt.Errorf("pager %q already registered", kind),
			errors.ErrConfiguration,
			"register pager",
		)
	}
	f.registry[kind] = creator
	return nil
}

// CreatePager looks up and invokes a creator.
func (f *Factory) CreatePager(kind config.PaginationType, builder RequestBuilder, pageSize int) (Pager, error) {
	f.mu.RLock()
	creator, ok := f.registry[kind]
	f.mu.RUnlock()
	if !ok {
		return nil, errors.WrapError(
			fmt.Errorf("unsupported pager type: %s", kind),
			errors.ErrConfiguration,
			"create pager",
		)
	}
	return creator(builder, pageSize)
}

// GetAvailablePagers returns a sorted list of registered kinds.
func (f *Factory) GetAvailablePagers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	kinds := make([]string, 0, len(f.registry))
	for kind := range f.registry {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	return kinds
}

// DefaultFactory is the global registry.
var DefaultFactory = NewFactory()

func init() {
	_ = DefaultFactory.RegisterPager(config.PaginationTypePage, pageCreator)
	_ = DefaultFactory.RegisterPager(config.PaginationTypeLink, linkCreator)
}

func pageCreator(b RequestBuilder, size int) (Pager, error) {
	p, err := NewPagePager(b, size)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func linkCreator(b RequestBuilder, size int) (Pager, error) {
	p, err := NewLinkPager(b, size)
	if err != nil {
		return nil, err
	}
	return p, nil
}
