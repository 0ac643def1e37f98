package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"eduphysics/internal/model"
)

func fixedNow() time.Time {
	// A Wednesday in the middle of the month.
	return time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC)
}

func newAnalyticsService(repo *MockStudentRepository) *analyticsService {
	svc := NewAnalyticsService(repo, nil).(*analyticsService)
	svc.now = fixedNow
	return svc
}

func TestAnalyticsService_Overview(t *testing.T) {
	now := fixedNow()
	students := []model.Student{
		{Gender: "male", Classes: []string{"physics", "combined-maths"}, CreatedAt: now.AddDate(0, 0, -2)},
		{Gender: "female", Classes: []string{"chemistry"}, CreatedAt: now.AddDate(0, 0, -10)},
		{Gender: "other", Classes: []string{"physics", "biology"}, CreatedAt: now.AddDate(0, -2, 0)},
	}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("ListAll", mock.Anything).Return(students, nil)

	report, err := newAnalyticsService(mockRepo).Overview(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, report.TotalStudents)
	// Genders outside the reported pair count toward the total only.
	assert.Equal(t, 1, report.GenderDistribution.Male)
	assert.Equal(t, 1, report.GenderDistribution.Female)
	// A student is counted once per matching recognized tag; unrecognized
	// tags are ignored.
	assert.Equal(t, 2, report.ClassDistribution.Physics)
	assert.Equal(t, 1, report.ClassDistribution.Chemistry)
	assert.Equal(t, 1, report.ClassDistribution.CombinedMaths)
	// Rolling windows against the fixed instant: only the 2-day-old record is
	// inside the week; the 10-day-old one still falls in the current month.
	assert.Equal(t, 1, report.RecentRegistrations.ThisWeek)
	assert.Equal(t, 2, report.RecentRegistrations.ThisMonth)
}

func TestAnalyticsService_Overview_Empty(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	mockRepo.On("ListAll", mock.Anything).Return([]model.Student{}, nil)

	report, err := newAnalyticsService(mockRepo).Overview(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, report.TotalStudents)
	assert.Equal(t, 0, report.RecentRegistrations.ThisWeek)
}

func TestAnalyticsService_Finance(t *testing.T) {
	students := []model.Student{
		{RegistrationFee: 1000, RegisterDate: "2024-03-02", Classes: []string{"physics"}},
		{RegistrationFee: 1000, RegisterDate: "2024-02-10", Classes: []string{"chemistry"}},
		{RegistrationFee: 2000, RegisterDate: "2024-03-15", Classes: []string{"combined-maths"}},
	}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("ListAll", mock.Anything).Return(students, nil)

	report, err := newAnalyticsService(mockRepo).Finance(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 4000, report.TotalRevenue)
	assert.Equal(t, 3, report.TotalStudents)
	// Month revenue keys off the registerDate string prefix for 2024-03.
	assert.Equal(t, 3000, report.MonthRevenue)
	assert.Equal(t, 2, report.MonthStudents)
	// Floor average.
	assert.Equal(t, 1333, report.AverageFee)

	assert.Equal(t, FeeBucket{Count: 2, Total: 2000}, report.FeeDistribution["1000"])
	assert.Equal(t, FeeBucket{Count: 1, Total: 2000}, report.FeeDistribution["2000"])
	assert.Equal(t, FeeBucket{Count: 0, Total: 0}, report.FeeDistribution["3000"])
}

func TestAnalyticsService_Finance_ClassRevenue(t *testing.T) {
	students := []model.Student{
		// 3000 split across two classes: 1500 each.
		{RegistrationFee: 3000, RegisterDate: "2024-03-01", Classes: []string{"physics", "chemistry"}},
		// 1000 split across three classes: 333.33..., rounded only at the end.
		{RegistrationFee: 1000, RegisterDate: "2024-03-05", Classes: []string{"physics", "chemistry", "combined-maths"}},
	}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("ListAll", mock.Anything).Return(students, nil)

	report, err := newAnalyticsService(mockRepo).Finance(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1833, report.ClassRevenue.Physics)
	assert.Equal(t, 1833, report.ClassRevenue.Chemistry)
	assert.Equal(t, 333, report.ClassRevenue.CombinedMaths)
}

func TestAnalyticsService_Finance_Empty(t *testing.T) {
	mockRepo := new(MockStudentRepository)
	mockRepo.On("ListAll", mock.Anything).Return([]model.Student{}, nil)

	report, err := newAnalyticsService(mockRepo).Finance(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, report.TotalRevenue)
	// No division error on an empty set.
	assert.Equal(t, 0, report.AverageFee)
	assert.Equal(t, FeeBucket{}, report.FeeDistribution["1000"])
}

func TestAnalyticsService_Finance_NonCanonicalFee(t *testing.T) {
	students := []model.Student{
		{RegistrationFee: 2500, RegisterDate: "2024-03-02", Classes: []string{"physics"}},
	}

	mockRepo := new(MockStudentRepository)
	mockRepo.On("ListAll", mock.Anything).Return(students, nil)

	report, err := newAnalyticsService(mockRepo).Finance(context.Background())

	assert.NoError(t, err)
	// Counted in revenue and average, excluded from the breakdown.
	assert.Equal(t, 2500, report.TotalRevenue)
	assert.Equal(t, 2500, report.AverageFee)
	for _, key := range []string{"1000", "2000", "3000"} {
		assert.Equal(t, FeeBucket{}, report.FeeDistribution[key])
	}
}
