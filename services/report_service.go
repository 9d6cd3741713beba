package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/hyeonjun-dev/fitcenter/models"
	"github.com/hyeonjun-dev/fitcenter/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reportRecord struct {
	Date string
	Memo string
}

type monthlyReportData struct {
	MemberName       string
	TrainerName      string
	Month            string
	CompletedCount   int64
	RemainingCredits int
	ExerciseRecords  []reportRecord
	MealRecords      []reportRecord
}

// GenerateMonthlyReport renders a member's month of activity (completed PT
// sessions, workout and meal records) to a PDF and uploads it to S3,
// returning the object URL. month is "YYYY-MM".
func GenerateMonthlyReport(db *gorm.DB, accountID uuid.UUID, month string) (string, error) {
	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", month, err)
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	var member models.Member
	err = db.Preload("Account").Preload("Trainer.Account").
		Where("account_id = ? AND is_deleted = ?", accountID, false).
		First(&member).Error
	if err != nil {
		return "", ErrNotFound
	}

	data := monthlyReportData{
		MemberName:       member.Account.Name,
		Month:            monthStart.Format("January 2006"),
		RemainingCredits: member.PtCount,
	}
	if member.Trainer != nil {
		data.TrainerName = member.Trainer.Account.Name
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	err = db.Model(&models.Reservation{}).
		Joins("JOIN schedules ON schedules.id = reservations.schedule_id").
		Where("reservations.member_id = ? AND reservations.status = ?", member.ID, models.ReservationConfirmed).
		Where("schedules.date >= ? AND schedules.date < ?", monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02")).
		Where("(schedules.date || ' ' || schedules.start_time) <= ?", now).
		Count(&data.CompletedCount).Error
	if err != nil {
		return "", err
	}

	var exercises []models.ExerciseRecord
	err = db.Where("account_id = ? AND date >= ? AND date < ?",
		accountID, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02")).
		Order("date asc, created_at asc").
		Find(&exercises).Error
	if err != nil {
		return "", err
	}
	for _, rec := range exercises {
		data.ExerciseRecords = append(data.ExerciseRecords, reportRecord{Date: rec.Date, Memo: rec.Memo})
	}

	var meals []models.MealRecord
	err = db.Where("account_id = ? AND date >= ? AND date < ?",
		accountID, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02")).
		Order("date asc, created_at asc").
		Find(&meals).Error
	if err != nil {
		return "", err
	}
	for _, rec := range meals {
		data.MealRecords = append(data.MealRecords, reportRecord{Date: rec.Date, Memo: rec.Memo})
	}

	html, err := renderReportHTML(data)
	if err != nil {
		return "", fmt.Errorf("failed to render report HTML: %w", err)
	}

	pdfBytes, err := renderPDF(html)
	if err != nil {
		return "", fmt.Errorf("failed to render report PDF: %w", err)
	}

	fileName := fmt.Sprintf("%s-%s.pdf", member.ID, month)
	return storage.UploadBytes(context.Background(), "reports", fileName, "application/pdf", pdfBytes)
}

func renderReportHTML(data monthlyReportData) (string, error) {
	tmpl, err := template.ParseFiles("templates/report.html")
	if err != nil {
		return "", err
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

func renderPDF(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
