package prefix

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Mapping CSV format, one row per prefix:
//
//	prefix,folder1|folder2|folder3

// ExportCSV writes every configured prefix mapping.
func (s *Service) ExportCSV(w io.Writer) error {
	all, err := s.All()
	if err != nil {
		return err
	}

	prefixes := make([]string, 0, len(all))
	for prefix := range all {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"prefix", "folders"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, prefix := range prefixes {
		if err := writer.Write([]string{prefix, strings.Join(all[prefix], "|")}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()

	return writer.Error()
}

// ImportCSV replaces the current mappings with the file's contents.
// Rows with invalid prefixes are skipped and reported in the returned
// count of imported prefixes.
func (s *Service) ImportCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("empty csv")
	}

	// Drop the header row if present.
	if strings.EqualFold(records[0][0], "prefix") {
		records = records[1:]
	}

	existing, err := s.All()
	if err != nil {
		return 0, err
	}
	for prefix := range existing {
		if err := s.DeletePrefix(prefix); err != nil {
			return 0, err
		}
	}

	imported := 0
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		prefix := strings.TrimSpace(record[0])
		if !IsValidPrefix(prefix) {
			s.logger.Warn("skipping invalid prefix on import", "prefix", prefix)
			continue
		}
		added := false
		for _, folder := range strings.Split(record[1], "|") {
			if strings.TrimSpace(folder) == "" {
				continue
			}
			if err := s.AddFolder(prefix, folder); err != nil {
				return imported, err
			}
			added = true
		}
		if added {
			imported++
		}
	}

	return imported, nil
}
