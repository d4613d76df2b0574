package lookup

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"

	"github.com/falah-io/falah/pkg/observability"
)

// ErrUnknownCategory is returned for a category absent from the seed file.
var ErrUnknownCategory = fmt.Errorf("unknown lookup category")

const (
	cacheType    = "lookup"
	cacheSize    = 64
	cacheTTL     = 5 * time.Minute
	debounceWait = 250 * time.Millisecond
)

// seedFile is the on-disk shape: category name to ordered option list.
type seedFile struct {
	Lookups map[string][]string `yaml:"lookups"`
}

// Service resolves dropdown option lists by category. Values come from a
// YAML seed file and are served through a small expiring cache; callers
// never see partially reloaded state.
type Service struct {
	path    string
	logger  *observability.Logger
	metrics *observability.Metrics

	cache *lru.LRU[string, []string]

	mu         sync.RWMutex
	categories map[string][]string // keyed by lowercase category
	names      map[string]string   // lowercase -> canonical name
}

// NewService loads the seed file at path. A missing or empty file leaves
// the service serving the built-in defaults.
func NewService(path string, logger *observability.Logger, metrics *observability.Metrics) (*Service, error) {
	s := &Service{
		path:       path,
		logger:     logger,
		metrics:    metrics,
		cache:      lru.NewLRU[string, []string](cacheSize, nil, cacheTTL),
		categories: map[string][]string{},
		names:      map[string]string{},
	}
	s.setCategories(defaultLookups())

	if path != "" {
		if err := s.Reload(); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
			logger.WithField("path", path).Warn("lookup seed file missing, using defaults")
		}
	}
	return s, nil
}

// Reload re-reads the seed file and replaces the category table. Seeded
// categories merge over the defaults so a partial file stays usable.
func (s *Service) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse lookup seed file: %w", err)
	}

	merged := defaultLookups()
	for name, values := range seed.Lookups {
		merged[name] = values
	}
	s.setCategories(merged)
	s.cache.Purge()

	s.logger.WithField("categories", len(merged)).Info("lookup seed loaded")
	return nil
}

func (s *Service) setCategories(table map[string][]string) {
	categories := make(map[string][]string, len(table))
	names := make(map[string]string, len(table))
	for name, values := range table {
		key := strings.ToLower(name)
		categories[key] = values
		names[key] = name
	}

	s.mu.Lock()
	s.categories = categories
	s.names = names
	s.mu.Unlock()
}

// Values returns the option list for a category. Lookup is
// case-insensitive on the category name.
func (s *Service) Values(category string) ([]string, error) {
	key := strings.ToLower(category)

	if values, ok := s.cache.Get(key); ok {
		s.metrics.CacheHitsTotal.WithLabelValues(cacheType).Inc()
		return values, nil
	}
	s.metrics.CacheMissesTotal.WithLabelValues(cacheType).Inc()

	s.mu.RLock()
	values, ok := s.categories[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownCategory
	}

	s.cache.Add(key, values)
	return values, nil
}

// Categories returns the canonical category names, sorted.
func (s *Service) Categories() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, name)
	}
	s.mu.RUnlock()

	sort.Strings(out)
	return out
}

func defaultLookups() map[string][]string {
	return map[string][]string{
		"Gender":          {"Male", "Female", "Other"},
		"MaritalStatus":   {"Single", "Married", "Divorced", "Widowed"},
		"ApplicantStatus": {"pending", "under_review", "approved", "rejected", "closed"},
		"TaskStatus":      {"open", "in_progress", "blocked", "done"},
		"Grade": {
			"Nursery", "KG", "Grade 1", "Grade 2", "Grade 3", "Grade 4",
			"Grade 5", "Grade 6", "Grade 7", "Grade 8",
		},
		"AttendanceFrequency": {
			"7 days per week", "6 days per week", "5 days per week",
			"4 days per week", "3 days per week", "2 days per week",
			"Once a week", "Weekends only", "Occasionally",
		},
		"Expectations": {
			"Quranic education", "Character building", "Academic support",
			"Welfare support", "Other (please specify)",
		},
	}
}
