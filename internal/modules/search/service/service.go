package search

import (
	"context"
	"html"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"anoa.com/mediannsp/internal/entity"
	componentRepo "anoa.com/mediannsp/internal/modules/component/repository"
	deviceRepo "anoa.com/mediannsp/internal/modules/device/repository"
	"anoa.com/mediannsp/pkg/apperror"
	commonDto "anoa.com/mediannsp/pkg/dto"
	"github.com/microcosm-cc/bluemonday"
)

const (
	EntityAll   = "all"
	maxQueryLen = 100

	// MaxResultWindow bounds how deep into the merged ordering a page may reach.
	MaxResultWindow = 10000
)

var (
	errQueryRequired = apperror.BadRequest("Search query is required")
	errQueryLength   = apperror.BadRequest("Query must be between 1 and 100 characters")
)

// Hit is one search result: a device or a component tagged with its entity type.
type Hit interface {
	Created() time.Time
	Ref() entity.EntityRef
}

type DeviceHit struct {
	EntityType entity.EntityType `json:"entity_type"`
	entity.Device
}

func (h DeviceHit) Created() time.Time    { return h.CreatedAt }
func (h DeviceHit) Ref() entity.EntityRef { return entity.DeviceRef(h.ID) }

type ComponentHit struct {
	EntityType entity.EntityType `json:"entity_type"`
	entity.Component
}

func (h ComponentHit) Created() time.Time    { return h.CreatedAt }
func (h ComponentHit) Ref() entity.EntityRef { return entity.ComponentRef(h.ID) }

// Criteria selects the sources and filters of one search.
type Criteria struct {
	EntityType      string
	Search          string
	DeviceTypeID    uint
	ComponentTypeID uint
	Status          string
	Location        string
	Page            int
	Limit           int
}

func (c Criteria) includes(t entity.EntityType) bool {
	return c.EntityType == "" || c.EntityType == EntityAll || c.EntityType == string(t)
}

type SearchService interface {
	// Search runs a free-text query; query is required.
	Search(ctx context.Context, query string, criteria Criteria) (*commonDto.Page[Hit], error)
	// Advanced runs a filtered search; every filter is optional.
	Advanced(ctx context.Context, criteria Criteria) (*commonDto.Page[Hit], error)
}

type searchService struct {
	devices    deviceRepo.DeviceRepository
	components componentRepo.ComponentRepository
	sanitizer  *bluemonday.Policy
}

func NewSearchService(devices deviceRepo.DeviceRepository, components componentRepo.ComponentRepository) SearchService {
	return &searchService{
		devices:    devices,
		components: components,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// clean strips markup from user input and normalizes whitespace.
func (s *searchService) clean(text string) string {
	sanitized := html.UnescapeString(s.sanitizer.Sanitize(text))
	return strings.Join(strings.Fields(sanitized), " ")
}

func (s *searchService) Search(ctx context.Context, query string, criteria Criteria) (*commonDto.Page[Hit], error) {
	if strings.TrimSpace(query) == "" {
		return nil, errQueryRequired
	}
	cleaned := s.clean(query)
	if n := utf8.RuneCountInString(cleaned); n < 1 || n > maxQueryLen {
		return nil, errQueryLength
	}

	criteria.Search = cleaned
	criteria.DeviceTypeID, criteria.ComponentTypeID = 0, 0
	criteria.Status, criteria.Location = "", ""
	return s.merge(ctx, criteria)
}

func (s *searchService) Advanced(ctx context.Context, criteria Criteria) (*commonDto.Page[Hit], error) {
	criteria.Search = s.clean(criteria.Search)
	criteria.Location = s.clean(criteria.Location)
	return s.merge(ctx, criteria)
}

// merge loads the first page*limit rows of each source so the requested window of
// the combined ordering is exact.
func (s *searchService) merge(ctx context.Context, c Criteria) (*commonDto.Page[Hit], error) {
	c.Page, c.Limit = commonDto.NormalizePage(c.Page, c.Limit)

	// Pages past the window only need the totals.
	beyond := c.Page-1 >= MaxResultWindow/c.Limit
	size := 1
	if !beyond {
		size = c.Page * c.Limit
	}
	window := commonDto.ListQuery{Page: 1, Limit: size, Search: c.Search}

	var (
		hits  []Hit
		total int64
	)

	if c.includes(entity.EntityDevice) {
		page, err := s.devices.List(ctx, deviceRepo.Filter{
			ListQuery:    window,
			DeviceTypeID: c.DeviceTypeID,
			Status:       c.Status,
			Location:     c.Location,
		})
		if err != nil {
			return nil, err
		}
		for _, d := range page.Items {
			hits = append(hits, DeviceHit{EntityType: entity.EntityDevice, Device: d})
		}
		total += page.TotalCount
	}

	if c.includes(entity.EntityComponent) {
		page, err := s.components.List(ctx, componentRepo.Filter{
			ListQuery:       window,
			ComponentTypeID: c.ComponentTypeID,
			Status:          c.Status,
		})
		if err != nil {
			return nil, err
		}
		for _, comp := range page.Items {
			hits = append(hits, ComponentHit{EntityType: entity.EntityComponent, Component: comp})
		}
		total += page.TotalCount
	}

	if beyond {
		return commonDto.NewPage([]Hit{}, total, c.Page, c.Limit), nil
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if !a.Created().Equal(b.Created()) {
			return a.Created().After(b.Created())
		}
		ra, rb := a.Ref(), b.Ref()
		if ra.Type != rb.Type {
			return ra.Type == entity.EntityDevice
		}
		return ra.ID > rb.ID
	})

	start := (c.Page - 1) * c.Limit
	if start > len(hits) {
		start = len(hits)
	}
	end := start + c.Limit
	if end > len(hits) {
		end = len(hits)
	}
	return commonDto.NewPage(hits[start:end], total, c.Page, c.Limit), nil
}
