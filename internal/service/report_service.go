package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"zooback/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ReportService Excel 报表服务接口
type ReportService interface {
	AnimalsReport(ctx context.Context) ([]byte, error)
	FeedingSchedulesReport(ctx context.Context) ([]byte, error)
}

// reportService 实现
type reportService struct {
	animals    repository.AnimalsRepository
	categories repository.CategoriesRepository
	enclosures repository.EnclosuresRepository
	feeding    repository.FeedingRepository
	logger     *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(
	animals repository.AnimalsRepository,
	categories repository.CategoriesRepository,
	enclosures repository.EnclosuresRepository,
	feeding repository.FeedingRepository,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		animals:    animals,
		categories: categories,
		enclosures: enclosures,
		feeding:    feeding,
		logger:     logger,
	}
}

// animalsReportHeader 动物报表表头
var animalsReportHeader = []string{
	"Name",
	"Species",
	"Gender",
	"Date Of Birth",
	"Arrival Date",
	"Category",
	"Enclosure",
}

// feedingReportHeader 喂食计划报表表头
var feedingReportHeader = []string{
	"Animal",
	"Food Type",
	"Quantity (kg)",
	"Feeding Time",
	"Status",
	"Notes",
}

const reportPageSize = 1 << 20 // 导出不分页，一次取全量

// AnimalsReport 导出全部动物为 Excel
func (s *reportService) AnimalsReport(ctx context.Context) ([]byte, error) {
	animals, _, err := s.animals.ListAnimals(ctx, repository.AnimalsFilter{}, 1, reportPageSize)
	if err != nil {
		return nil, err
	}

	// 名称解析用缓存，避免每行查库
	categoryNames := map[string]string{}
	enclosureNames := map[string]string{}

	rows := make([][]any, 0, len(animals))
	for _, a := range animals {
		categoryName := categoryNames[a.CategoryID]
		if categoryName == "" {
			if c, err := s.categories.GetCategory(ctx, a.CategoryID); err == nil {
				categoryName = c.Name
				categoryNames[a.CategoryID] = categoryName
			}
		}
		enclosureName := ""
		if a.EnclosureID.Valid {
			enclosureName = enclosureNames[a.EnclosureID.String]
			if enclosureName == "" {
				if e, err := s.enclosures.GetEnclosure(ctx, a.EnclosureID.String); err == nil {
					enclosureName = e.Name
					enclosureNames[a.EnclosureID.String] = enclosureName
				}
			}
		}

		dob := ""
		if a.DateOfBirth.Valid {
			dob = a.DateOfBirth.Time.Format("2006-01-02")
		}
		rows = append(rows, []any{
			a.Name,
			a.Species,
			a.Gender.String,
			dob,
			a.ArrivalDate.Format("2006-01-02"),
			categoryName,
			enclosureName,
		})
	}

	s.logger.Info("Animals report generated", zap.Int("rows", len(rows)))
	return generateReport("Animals", animalsReportHeader, rows)
}

// FeedingSchedulesReport 导出全部喂食计划为 Excel
func (s *reportService) FeedingSchedulesReport(ctx context.Context) ([]byte, error) {
	schedules, _, err := s.feeding.ListSchedules(ctx, repository.FeedingFilter{}, 1, reportPageSize)
	if err != nil {
		return nil, err
	}

	animalNames := map[string]string{}
	rows := make([][]any, 0, len(schedules))
	for _, f := range schedules {
		animalName := animalNames[f.AnimalID]
		if animalName == "" {
			if a, err := s.animals.GetAnimal(ctx, f.AnimalID); err == nil {
				animalName = a.Name
				animalNames[f.AnimalID] = animalName
			}
		}
		rows = append(rows, []any{
			animalName,
			f.FoodType,
			f.QuantityKg,
			f.FeedingTime.Format(time.RFC3339),
			string(f.Status),
			f.Notes.String,
		})
	}

	s.logger.Info("Feeding schedules report generated", zap.Int("rows", len(rows)))
	return generateReport("Feeding Schedules", feedingReportHeader, rows)
}

// generateReport 生成单工作表 Excel 文件
func generateReport(sheetName string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, 20); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
