package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eduphysics/internal/cache"
	"eduphysics/internal/model"
	"eduphysics/internal/repository"
)

const (
	overviewCacheKey = "analytics:overview"
	financeCacheKey  = "analytics:finance"
	reportCacheTTL   = 5 * time.Minute
)

// GenderDistribution partitions the student count by gender. Values outside
// the two reported genders are counted in the total only.
type GenderDistribution struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// ClassDistribution counts enrollment per recognized class tag. A student in
// several classes is counted once per matching tag, so the sums may exceed
// the student total.
type ClassDistribution struct {
	Physics       int `json:"physics"`
	Chemistry     int `json:"chemistry"`
	CombinedMaths int `json:"combinedMaths"`
}

// RecentRegistrations holds the rolling-window registration counts.
type RecentRegistrations struct {
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

// EnrollmentOverview is the enrollment analytics report.
type EnrollmentOverview struct {
	TotalStudents       int                 `json:"totalStudents"`
	GenderDistribution  GenderDistribution  `json:"genderDistribution"`
	ClassDistribution   ClassDistribution   `json:"classDistribution"`
	RecentRegistrations RecentRegistrations `json:"recentRegistrations"`
}

// FeeBucket is the per-price-point slice of the fee distribution.
type FeeBucket struct {
	Count int `json:"count"`
	Total int `json:"total"`
}

// ClassRevenue apportions each student's fee evenly across their classes.
type ClassRevenue struct {
	Physics       int `json:"physics"`
	Chemistry     int `json:"chemistry"`
	CombinedMaths int `json:"combinedMaths"`
}

// FinanceOverview is the finance analytics report. FeeDistribution is keyed
// by the three canonical price points; other fee values count toward revenue
// and the average but are excluded from the breakdown.
type FinanceOverview struct {
	TotalRevenue    int                  `json:"totalRevenue"`
	TotalStudents   int                  `json:"totalStudents"`
	MonthRevenue    int                  `json:"monthRevenue"`
	MonthStudents   int                  `json:"monthStudents"`
	AverageFee      int                  `json:"averageFee"`
	FeeDistribution map[string]FeeBucket `json:"feeDistribution"`
	ClassRevenue    ClassRevenue         `json:"classRevenue"`
}

// canonicalFees are the three price points broken out in the fee distribution.
var canonicalFees = []int{1000, 2000, 3000}

// AnalyticsService computes the enrollment and finance reports. Both scan the
// full student set on every call; results are cached briefly and invalidated
// on any student mutation.
type AnalyticsService interface {
	Overview(ctx context.Context) (*EnrollmentOverview, error)
	Finance(ctx context.Context) (*FinanceOverview, error)
}

type analyticsService struct {
	repo  repository.StudentRepository
	cache *cache.Client
	now   func() time.Time
}

// NewAnalyticsService creates a new analytics service.
func NewAnalyticsService(repo repository.StudentRepository, cache *cache.Client) AnalyticsService {
	return &analyticsService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// Overview computes the enrollment report.
func (s *analyticsService) Overview(ctx context.Context) (*EnrollmentOverview, error) {
	if data, _ := s.cache.Get(ctx, overviewCacheKey); data != nil {
		var cached EnrollmentOverview
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}

	now := s.now().UTC()
	// A true rolling seven-day window. The legacy backend subtracted seven
	// from the day of month and collapsed the window to zero width during
	// the first week of each month.
	weekAgo := now.AddDate(0, 0, -7)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	report := &EnrollmentOverview{TotalStudents: len(students)}
	for _, st := range students {
		switch st.Gender {
		case "male":
			report.GenderDistribution.Male++
		case "female":
			report.GenderDistribution.Female++
		}

		if hasClass(st.Classes, model.ClassPhysics) {
			report.ClassDistribution.Physics++
		}
		if hasClass(st.Classes, model.ClassChemistry) {
			report.ClassDistribution.Chemistry++
		}
		if hasClass(st.Classes, model.ClassCombinedMaths) {
			report.ClassDistribution.CombinedMaths++
		}

		if !st.CreatedAt.Before(weekAgo) {
			report.RecentRegistrations.ThisWeek++
		}
		if !st.CreatedAt.Before(monthStart) {
			report.RecentRegistrations.ThisMonth++
		}
	}

	s.store(ctx, overviewCacheKey, report)
	return report, nil
}

// Finance computes the revenue report.
func (s *analyticsService) Finance(ctx context.Context) (*FinanceOverview, error) {
	if data, _ := s.cache.Get(ctx, financeCacheKey); data != nil {
		var cached FinanceOverview
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	students, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}

	monthPrefix := s.now().UTC().Format("2006-01")

	report := &FinanceOverview{
		TotalStudents:   len(students),
		FeeDistribution: make(map[string]FeeBucket, len(canonicalFees)),
	}
	for _, fee := range canonicalFees {
		report.FeeDistribution[feeKey(fee)] = FeeBucket{}
	}

	var physics, chemistry, maths decimal.Decimal
	for _, st := range students {
		report.TotalRevenue += st.RegistrationFee

		if strings.HasPrefix(st.RegisterDate, monthPrefix) {
			report.MonthRevenue += st.RegistrationFee
			report.MonthStudents++
		}

		if bucket, ok := report.FeeDistribution[feeKey(st.RegistrationFee)]; ok {
			bucket.Count++
			bucket.Total += st.RegistrationFee
			report.FeeDistribution[feeKey(st.RegistrationFee)] = bucket
		}

		// Each fee is split evenly across the student's classes; the per-tag
		// totals are rounded once at the end, not per student.
		if len(st.Classes) == 0 {
			continue
		}
		perClass := decimal.NewFromInt(int64(st.RegistrationFee)).
			Div(decimal.NewFromInt(int64(len(st.Classes))))
		if hasClass(st.Classes, model.ClassPhysics) {
			physics = physics.Add(perClass)
		}
		if hasClass(st.Classes, model.ClassChemistry) {
			chemistry = chemistry.Add(perClass)
		}
		if hasClass(st.Classes, model.ClassCombinedMaths) {
			maths = maths.Add(perClass)
		}
	}

	if len(students) > 0 {
		report.AverageFee = report.TotalRevenue / len(students)
	}
	report.ClassRevenue = ClassRevenue{
		Physics:       int(physics.Round(0).IntPart()),
		Chemistry:     int(chemistry.Round(0).IntPart()),
		CombinedMaths: int(maths.Round(0).IntPart()),
	}

	s.store(ctx, financeCacheKey, report)
	return report, nil
}

func (s *analyticsService) store(ctx context.Context, key string, report interface{}) {
	if payload, err := json.Marshal(report); err == nil {
		_ = s.cache.Set(ctx, key, payload, reportCacheTTL)
	}
}

func feeKey(fee int) string {
	return fmt.Sprintf("%d", fee)
}

func hasClass(classes []string, tag string) bool {
	for _, c := range classes {
		if c == tag {
			return true
		}
	}
	return false
}
