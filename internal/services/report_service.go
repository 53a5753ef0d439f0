package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories/postgres"
)

// ReportService renders session results and learner mastery summaries as
// downloadable spreadsheets for teachers.
type ReportService interface {
	ExportSessionReport(ctx context.Context, sessionID string) ([]byte, string, error)
	ExportStudentReport(ctx context.Context, studentID string) ([]byte, string, error)
}

type reportService struct {
	repo     repositories.Repository
	profiles ProfileService
	logger   *slog.Logger
}

func NewReportService(repo repositories.Repository, profiles ProfileService, logger *slog.Logger) ReportService {
	return &reportService{
		repo:     repo,
		profiles: profiles,
		logger:   logger,
	}
}

// ExportSessionReport builds an xlsx workbook with one row per recorded
// interaction and a summary row. Returns the file bytes and a suggested
// filename.
func (s *reportService) ExportSessionReport(ctx context.Context, sessionID string) ([]byte, string, error) {
	session, err := s.repo.Session().GetBySessionIDWithInteractions(ctx, sessionID)
	if err != nil {
		if postgres.IsNotFoundError(err) {
			return nil, "", ErrSessionNotFound
		}
		return nil, "", fmt.Errorf("failed to load session: %w", err)
	}
	if len(session.Interactions) == 0 {
		return nil, "", ErrSessionHasNoResults
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Session Report"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"#", "Exercise", "Type", "Score", "Correct Units", "Total Units",
		"Attempts", "Hints Used", "Resets", "Time (s)",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	totalScore := 0
	for row, in := range session.Interactions {
		values := []interface{}{
			in.Seq, in.ExerciseID, in.Variant, in.Score, in.CorrectUnits,
			in.TotalUnits, in.Attempts, in.HintsUsed, in.Resets, in.TimeSeconds,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
		totalScore += in.Score
	}

	summaryRow := len(session.Interactions) + 3
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(sheet, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(4, summaryRow)
	f.SetCellValue(sheet, cell, totalScore)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}

	filename := fmt.Sprintf("session_%s.xlsx", sessionID)
	s.logger.Info("Exported session report",
		"session_id", sessionID,
		"interactions", len(session.Interactions))

	return buf.Bytes(), filename, nil
}

// ExportStudentReport builds an xlsx workbook with a mastery summary sheet
// from the learner profile and a second sheet listing the learner's sessions.
func (s *reportService) ExportStudentReport(ctx context.Context, studentID string) ([]byte, string, error) {
	p, err := s.profiles.Get(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	sessions, _, err := s.repo.Session().GetByStudent(ctx, studentID, repositories.SessionFilters{
		Limit:     500,
		SortBy:    "started_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load sessions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	summary := "Mastery Summary"
	f.SetSheetName("Sheet1", summary)

	rows := [][]interface{}{
		{"Student", studentID},
		{},
		{"Questions Attempted", p.Performance.TotalQuestionsAttempted},
		{"Correct Answers", p.Performance.TotalCorrectAnswers},
		{"Accuracy", p.Performance.GlobalAccuracyRate},
		{"Avg Response Time (s)", p.Performance.AverageResponseTimeSec},
		{"Hint Dependency", p.Behavioral.HintDependencyScore},
		{"Retry Persistence", p.Behavioral.RetryPersistence},
		{"Media: Text", p.Behavioral.MediaPreference.Text},
		{"Media: Video", p.Behavioral.MediaPreference.Video},
		{"Media: Gamified", p.Behavioral.MediaPreference.Gamified},
		{"Total Sessions", p.Engagement.TotalSessions},
		{"Total Time (s)", p.Engagement.TotalTimeSec},
	}
	if !p.Engagement.LastActiveAt.IsZero() {
		rows = append(rows, []interface{}{"Last Active", p.Engagement.LastActiveAt.Format("2006-01-02 15:04")})
	}
	if len(p.Performance.ErrorRateByTopic) > 0 {
		rows = append(rows, []interface{}{}, []interface{}{"Errors by Topic"})
		topics := make([]string, 0, len(p.Performance.ErrorRateByTopic))
		for topic := range p.Performance.ErrorRateByTopic {
			topics = append(topics, topic)
		}
		sort.Strings(topics)
		for _, topic := range topics {
			rows = append(rows, []interface{}{topic, p.Performance.ErrorRateByTopic[topic]})
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			f.SetCellValue(summary, cell, value)
		}
	}

	sessionsSheet := "Sessions"
	f.NewSheet(sessionsSheet)
	headers := []string{"Session", "Status", "Score", "Started", "Completed"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sessionsSheet, cell, header)
	}
	for row, session := range sessions {
		completed := ""
		if session.CompletedAt != nil {
			completed = session.CompletedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			session.SessionID, string(session.Status), session.TotalScore,
			session.StartedAt.Format("2006-01-02 15:04"), completed,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sessionsSheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render report: %w", err)
	}

	filename := fmt.Sprintf("student_%s.xlsx", studentID)
	s.logger.Info("Exported student report",
		"student_id", studentID,
		"sessions", len(sessions))

	return buf.Bytes(), filename, nil
}
