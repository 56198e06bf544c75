package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tiansito98/calorie-vision-tracker/models"
	"github.com/tiansito98/calorie-vision-tracker/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Mailer is the outbound email sink; the SES implementation lives in utils.
type Mailer interface {
	Send(to, subject, body string) error
}

// DigestService is a read-only consumer of finalized daily summaries: it
// folds one week of them into a WeeklyDigest row and mails the result.
type DigestService struct {
	db     *gorm.DB
	mailer Mailer
	log    *logrus.Logger
}

func NewDigestService(db *gorm.DB, mailer Mailer, log *logrus.Logger) *DigestService {
	if log == nil {
		log = logrus.New()
	}
	return &DigestService{db: db, mailer: mailer, log: log}
}

// BuildWeeklyDigest aggregates the Monday-to-Sunday week starting at
// weekStart and upserts the digest row.
func (s *DigestService) BuildWeeklyDigest(ctx context.Context, userID uint, weekStart string) (*models.WeeklyDigest, error) {
	start, err := utils.ParseDate(weekStart)
	if err != nil {
		return nil, err
	}
	weekStart = utils.FormatDate(utils.StartOfWeek(start))
	weekEnd := utils.AddDays(weekStart, 6)

	var summaries []models.DailySummary
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND summary_date BETWEEN ? AND ?", userID, weekStart, weekEnd).
		Order("summary_date ASC").
		Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("load week summaries: %w", err)
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	digest := &models.WeeklyDigest{
		UserID:        userID,
		WeekStartDate: weekStart,
		WeekEndDate:   weekEnd,
		CalorieTarget: user.CalorieTarget,
	}
	var totalCalories float64
	for _, d := range summaries {
		if d.TotalEntries == 0 {
			continue
		}
		digest.DaysLogged++
		totalCalories += d.TotalCalories
		digest.TotalProteinG += d.TotalProteinG
		digest.TotalCarbsG += d.TotalCarbsG
		digest.TotalFatG += d.TotalFatG
		if d.Variance < 0 {
			digest.DaysUnderTarget++
		} else if d.Variance > 0 {
			digest.DaysOverTarget++
		}
	}
	if digest.DaysLogged > 0 {
		digest.AvgDailyCalories = round1(totalCalories / float64(digest.DaysLogged))
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "week_start_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"updated_at", "week_end_date",
			"days_logged", "avg_daily_calories", "calorie_target",
			"days_under_target", "days_over_target",
			"total_protein_g", "total_carbs_g", "total_fat_g",
		}),
	}).Create(digest).Error; err != nil {
		return nil, fmt.Errorf("upsert digest: %w", err)
	}
	return digest, nil
}

// SendWeeklyDigest builds the digest and emails it, recording the attempt in
// the notification log.
func (s *DigestService) SendWeeklyDigest(ctx context.Context, userID uint, weekStart string) (*models.WeeklyDigest, error) {
	digest, err := s.BuildWeeklyDigest(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("Your weekly nutrition digest (%s – %s)", digest.WeekStartDate, digest.WeekEndDate)
	body := digestBody(digest)

	logRow := models.NotificationLog{UserID: userID, Channel: "email", Subject: subject, Status: "sent"}
	if err := s.mailer.Send(user.Email, subject, body); err != nil {
		logRow.Status = "failed"
		logRow.Detail = err.Error()
		s.log.WithError(err).WithField("user_id", userID).Error("digest email failed")
	} else {
		now := time.Now()
		digest.SentAt = &now
		_ = s.db.WithContext(ctx).Model(digest).Update("sent_at", now).Error
	}
	_ = s.db.WithContext(ctx).Create(&logRow).Error

	return digest, nil
}

// LatestDigest returns the most recent digest for a user.
func (s *DigestService) LatestDigest(ctx context.Context, userID uint) (*models.WeeklyDigest, error) {
	var digest models.WeeklyDigest
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start_date DESC").
		First(&digest).Error
	if err != nil {
		return nil, err
	}
	return &digest, nil
}

func digestBody(d *models.WeeklyDigest) string {
	return fmt.Sprintf(
		"Week %s to %s\n\nDays logged: %d\nAverage daily calories: %.0f (target %d)\nDays under target: %d\nDays over target: %d\n\nProtein: %.0fg  Carbs: %.0fg  Fat: %.0fg\n",
		d.WeekStartDate, d.WeekEndDate,
		d.DaysLogged, d.AvgDailyCalories, d.CalorieTarget,
		d.DaysUnderTarget, d.DaysOverTarget,
		d.TotalProteinG, d.TotalCarbsG, d.TotalFatG,
	)
}
