// Package labor proxies the BLS and O*NET APIs. Upstream failures never
// reach the caller: responses come from the upstream, the cache or, failing
// both, a built-in estimate with the same shape.
package labor

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/logging"
)

// DefaultCacheTTL is how long upstream responses are reused.
const DefaultCacheTTL = 12 * time.Hour

var errNoKey = errors.New("api key not configured")

// Service combines the upstream clients, the cache and the estimates.
type Service struct {
	bls   *BLSClient
	onet  *ONetClient
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewService builds a service. A nil cache keeps responses in memory and a
// nil log discards.
func NewService(bls *BLSClient, onet *ONetClient, cache Cache, log *slog.Logger) *Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Service{bls: bls, onet: onet, cache: cache, ttl: DefaultCacheTTL, log: log}
}

// Wage returns the annual mean wage for an occupation code.
func (s *Service) Wage(ctx context.Context, code string) Wage {
	w, cached := fetch(ctx, s, "bls", "wage:"+code, func(ctx context.Context) (Wage, error) {
		if s.bls == nil || s.bls.apiKey == "" {
			return Wage{}, errNoKey
		}
		v, year, err := s.bls.Latest(ctx, socPrefix(code), blsAnnualMean)
		if err != nil {
			return Wage{}, err
		}
		return Wage{Code: code, Title: estimateFor(code).Title, AnnualMeanWage: v, Year: year, Source: SourceBLS}, nil
	}, func() Wage { return estimatedWage(code) })
	w.Cached = cached
	return w
}

// Employment returns national employment for an occupation code. Growth
// projections are not part of the OEWS series and always come from the
// built-in table.
func (s *Service) Employment(ctx context.Context, code string) Employment {
	e, cached := fetch(ctx, s, "bls", "employment:"+code, func(ctx context.Context) (Employment, error) {
		if s.bls == nil || s.bls.apiKey == "" {
			return Employment{}, errNoKey
		}
		v, year, err := s.bls.Latest(ctx, socPrefix(code), blsEmployment)
		if err != nil {
			return Employment{}, err
		}
		est := estimateFor(code)
		return Employment{Code: code, Title: est.Title, Employment: int(v), GrowthPercent: est.Growth, Year: year, Source: SourceBLS}, nil
	}, func() Employment { return estimatedEmployment(code) })
	e.Cached = cached
	return e
}

// SearchOccupations finds occupations by keyword.
func (s *Service) SearchOccupations(ctx context.Context, keyword string) OccupationList {
	l, cached := fetch(ctx, s, "onet", "search:"+keyword, func(ctx context.Context) (OccupationList, error) {
		if s.onet == nil || s.onet.apiKey == "" {
			return OccupationList{}, errNoKey
		}
		occ, err := s.onet.Search(ctx, keyword)
		if err != nil {
			return OccupationList{}, err
		}
		if occ == nil {
			occ = []Occupation{}
		}
		return OccupationList{Keyword: keyword, Occupations: occ, Source: SourceONet}, nil
	}, func() OccupationList { return estimatedSearch(keyword) })
	l.Cached = cached
	return l
}

// OccupationSkills returns the skill summary of an occupation.
func (s *Service) OccupationSkills(ctx context.Context, code string) SkillList {
	l, cached := fetch(ctx, s, "onet", "skills:"+code, func(ctx context.Context) (SkillList, error) {
		if s.onet == nil || s.onet.apiKey == "" {
			return SkillList{}, errNoKey
		}
		sk, err := s.onet.Skills(ctx, code)
		if err != nil {
			return SkillList{}, err
		}
		if sk == nil {
			sk = []OccupationSkill{}
		}
		return SkillList{Code: code, Skills: sk, Source: SourceONet}, nil
	}, func() SkillList { return estimatedSkills(code) })
	l.Cached = cached
	return l
}

// fetch serves key from the cache, then the upstream, then the estimate.
// Only upstream responses are cached.
func fetch[T any](ctx context.Context, s *Service, service, key string, upstream func(context.Context) (T, error), estimate func() T) (T, bool) {
	if b, ok := s.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(b, &v); err == nil {
			return v, true
		}
	}

	v, err := upstream(ctx)
	if err == nil {
		if b, err := json.Marshal(v); err == nil {
			s.cache.Set(ctx, key, b, s.ttl)
		}
		return v, false
	}

	if errors.Is(err, errNoKey) {
		s.log.DebugContext(ctx, "upstream not configured, serving estimate", "service", service, "key", key)
	} else {
		s.log.WarnContext(ctx, "upstream failed, serving estimate", "service", service, "key", key, "error", err)
	}
	return estimate(), false
}
