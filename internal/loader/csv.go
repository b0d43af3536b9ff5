package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"pdexport/internal/domain"
)

// CSVWriter 把同构的行写成带表头的 CSV 文件（UTF-8）。
type CSVWriter struct {
	// Perm 为新文件权限，默认 0644。
	Perm os.FileMode
}

// NewCSVWriter 创建 CSV 写入器。
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{Perm: 0o644}
}

// WriteTable 把表写到 dir/table.File，返回完整路径。
func (w *CSVWriter) WriteTable(dir string, table domain.Table) (string, error) {
	path := filepath.Join(dir, table.File)
	if err := w.Write(path, table.Rows, table.Columns); err != nil {
		return "", err
	}
	return path, nil
}

// Write 先写表头，再按 columns 顺序逐行输出；行中缺失的列写为空字段，多余的键忽略。
// 内容先写入临时文件，成功后再覆盖目标文件。
func (w *CSVWriter) Write(path string, rows []domain.Row, columns []string) error {
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return fmt.Errorf("创建 csv 文件失败 %s: %w", path, err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("写入表头失败 %s: %w", path, err)
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = row.Get(col)
		}
		if err := writer.Write(record); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("写入数据行失败 %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("刷新 csv 失败 %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("关闭 csv 文件失败 %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("替换 csv 文件失败 %s: %w", path, err)
	}
	return nil
}
