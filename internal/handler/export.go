package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lifelog/internal/models"
	"lifelog/internal/service"
	"lifelog/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Date", "Title", "Mood", "Weather", "Location", "Tags", "Content", "Media"}

// ExportHandler 导出全部记录
type ExportHandler struct {
	Records *service.RecordService
}

func NewExportHandler(records *service.RecordService) *ExportHandler {
	return &ExportHandler{Records: records}
}

func exportRow(r *models.Record) []string {
	return []string{
		util.FormatDate(r.RecordDate),
		r.Title,
		r.Mood,
		r.Weather,
		r.Location,
		strings.Join(models.DecodeTags(r.Tags), ", "),
		r.Content,
		strconv.Itoa(len(r.Media)),
	}
}

func attachment(c *gin.Context, contentType, ext string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"records_%s.%s\"",
		time.Now().Format("20060102"), ext))
}

// ExportCSV 导出记录为 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	records, err := h.Records.All(c.Request.Context())
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}

	attachment(c, "text/csv; charset=utf-8", "csv")
	c.Status(http.StatusOK)

	// UTF-8 BOM（让 Excel 正确识别中文）
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for i := range records {
		writer.Write(exportRow(&records[i]))
	}
}

// ExportXLSX 导出记录为 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	records, err := h.Records.All(c.Request.Context())
	if err != nil {
		util.ErrorFrom(c, err, http.StatusInternalServerError)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Records"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "create sheet failed")
		return
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, title := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, title)
	}

	for idx := range records {
		row := exportRow(&records[idx])
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, idx+2)
			if col == len(row)-1 {
				// 附件数量写成数字
				f.SetCellValue(sheetName, cell, len(records[idx].Media))
				continue
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 20)
	f.SetColWidth(sheetName, "G", "G", 60)
	f.SetColWidth(sheetName, "H", "H", 8)

	attachment(c, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
