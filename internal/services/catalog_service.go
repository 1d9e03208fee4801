package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
	"knoxshield/pkg/engine"
	apperrors "knoxshield/pkg/errors"
	"knoxshield/pkg/logger"
)

const installStepPercent = 20

// installInterval paces the simulated tool download.
var installInterval = 400 * time.Millisecond

type CatalogServiceMethods interface {
	Categories(lang string) []models.ToolCategory
	Category(id, lang string) (*models.ToolCategory, error)
	Tool(categoryID, toolID, lang string) (*models.Tool, error)
	FindTool(toolID string) (*models.Tool, error)
	AllTools() []models.Tool
	Project(categoryOrName, toolIDOrName string, status models.ToolStatus, progress *float64) (*models.Tool, error)
	Install(toolID string) (*models.Tool, error)
}

type catalogService struct {
	mu         sync.RWMutex
	categories []models.ToolCategory
	events     Publisher
	logger     *logger.Logger
}

func NewCatalogService(categories []models.ToolCategory, events Publisher, log *logger.Logger) CatalogServiceMethods {
	if log == nil {
		log = logger.Default()
	}
	if events == nil {
		events = NewEventBroker(0)
	}
	owned := make([]models.ToolCategory, len(categories))
	for i, c := range categories {
		owned[i] = c.Clone()
	}
	return &catalogService{categories: owned, events: events, logger: log}
}

// Categories returns a copy of the catalog rendered in lang. An empty lang keeps raw keys.
func (s *catalogService) Categories(lang string) []models.ToolCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ToolCategory, len(s.categories))
	for i, c := range s.categories {
		out[i] = LocalizeCategory(c.Clone(), lang)
	}
	return out
}

func (s *catalogService) Category(id, lang string) (*models.ToolCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID == id {
			out := LocalizeCategory(c.Clone(), lang)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrCategoryNotFound, id)
}

func (s *catalogService) Tool(categoryID, toolID, lang string) (*models.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.ID != categoryID {
			continue
		}
		for _, t := range c.Tools {
			if t.ID == toolID {
				out := LocalizeTool(t.Clone(), lang)
				return &out, nil
			}
		}
		return nil, fmt.Errorf("%w: %s/%s", apperrors.ErrToolNotFound, categoryID, toolID)
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrCategoryNotFound, categoryID)
}

func (s *catalogService) FindTool(toolID string) (*models.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		for _, t := range c.Tools {
			if t.ID == toolID {
				out := t.Clone()
				return &out, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", apperrors.ErrToolNotFound, toolID)
}

func (s *catalogService) AllTools() []models.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Tool
	for _, c := range s.categories {
		for _, t := range c.Tools {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Project mirrors an operation's status onto its catalog tool. Running and
// Loading keep the given progress or the previous one, Completed is 100 and
// every other status resets progress to 0.
func (s *catalogService) Project(categoryOrName, toolIDOrName string, status models.ToolStatus, progress *float64) (*models.Tool, error) {
	s.mu.Lock()
	tool := s.lookup(categoryOrName, toolIDOrName)
	if tool == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperrors.ErrToolNotFound, toolIDOrName)
	}
	out := setToolStatus(tool, status, progress)
	s.mu.Unlock()

	s.events.Publish(TopicToolUpdated, out)
	return &out, nil
}

// setToolStatus applies the projection rules to tool. Callers hold s.mu.
func setToolStatus(tool *models.Tool, status models.ToolStatus, progress *float64) models.Tool {
	var next float64
	switch status {
	case models.StatusRunning, models.StatusLoading:
		switch {
		case progress != nil:
			next = *progress
		case tool.Progress != nil:
			next = *tool.Progress
		}
	case models.StatusCompleted:
		next = 100
	}
	next = engine.ClampProgress(next)

	tool.Status = status
	tool.Progress = &next
	return tool.Clone()
}

// lookup matches ids, raw names and names rendered in any supported language.
// Callers hold s.mu.
func (s *catalogService) lookup(categoryOrName, toolIDOrName string) *models.Tool {
	for ci := range s.categories {
		cat := &s.categories[ci]
		if categoryOrName != "" && !matchesName(cat.ID, cat.Name, categoryOrName) {
			continue
		}
		for ti := range cat.Tools {
			t := &cat.Tools[ti]
			if matchesName(t.ID, t.Name, toolIDOrName) {
				return t
			}
		}
	}
	return nil
}

// toolByID is an exact id match. Callers hold s.mu.
func (s *catalogService) toolByID(id string) *models.Tool {
	for ci := range s.categories {
		for ti := range s.categories[ci].Tools {
			if t := &s.categories[ci].Tools[ti]; t.ID == id {
				return t
			}
		}
	}
	return nil
}

func matchesName(id, name, query string) bool {
	if query == id || query == name {
		return true
	}
	for _, lang := range i18n.Languages() {
		if query == i18n.New(lang).Get(name) {
			return true
		}
	}
	return false
}

// Install simulates downloading a tool. Only a Not Loaded tool can be installed.
func (s *catalogService) Install(toolID string) (*models.Tool, error) {
	s.mu.Lock()
	tool := s.toolByID(toolID)
	if tool == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", apperrors.ErrToolNotFound, toolID)
	}
	if tool.Status != models.StatusNotLoaded {
		status := tool.Status
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s is %s", apperrors.ErrInvalidState, toolID, status)
	}
	zero := 0.0
	loading := setToolStatus(tool, models.StatusLoading, &zero)
	s.mu.Unlock()
	s.events.Publish(TopicToolUpdated, loading)

	s.logger.WithFields(logger.Fields{"tool_id": toolID}).Info("Installing tool")

	go func() {
		ticker := time.NewTicker(installInterval)
		defer ticker.Stop()

		progress := 0.0
		for range ticker.C {
			progress += installStepPercent
			if progress >= 100 {
				s.Project(loading.CategoryID, toolID, models.StatusReadyToRun, nil)
				s.logger.WithFields(logger.Fields{"tool_id": toolID}).Info("Tool installed")
				return
			}
			p := progress
			s.Project(loading.CategoryID, toolID, models.StatusLoading, &p)
		}
	}()

	return &loading, nil
}

// LocalizeCategory renders a category and its tools in lang.
func LocalizeCategory(c models.ToolCategory, lang string) models.ToolCategory {
	if lang == "" {
		return c
	}
	texts := i18n.New(lang)
	c.Name = texts.Get(c.Name)
	c.Description = texts.Get(c.Description)
	for i := range c.Tools {
		c.Tools[i] = LocalizeTool(c.Tools[i], lang)
	}
	return c
}

// LocalizeTool renders a tool's texts and run form in lang.
func LocalizeTool(t models.Tool, lang string) models.Tool {
	if lang == "" {
		return t
	}
	texts := i18n.New(lang)
	t.Name = texts.Get(t.Name)
	t.Description = texts.Get(t.Description)
	t.LongDescription = texts.Get(t.LongDescription)

	params := make([]models.ExecutionParam, len(t.SampleExecutionParams))
	for i, p := range t.SampleExecutionParams {
		p.Label = texts.Get(p.Label)
		p.Placeholder = texts.Get(p.Placeholder)
		opts := make([]string, len(p.Options))
		for j, o := range p.Options {
			opts[j] = texts.Get(o)
		}
		if len(opts) > 0 {
			p.Options = opts
		}
		params[i] = p
	}
	if len(params) > 0 {
		t.SampleExecutionParams = params
	}
	return t
}

// displayName renders a possibly-keyed name in lang.
func displayName(name, lang string) string {
	if lang == "" {
		lang = i18n.English
	}
	return strings.TrimSpace(i18n.New(lang).Get(name))
}
