// Package workload reads process lists from CSV, YAML or JSON files.
package workload

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"mlfq-simulator/internal/requests"
)

var ErrUnsupportedFormat = errors.New("unsupported workload format")

// Load reads a workload file, picking the parser from its extension.
func Load(path string) (*requests.ScheduleRequests, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ParseCSV(f)
	case ".yaml", ".yml":
		return ParseYAML(f)
	case ".json":
		return ParseJSON(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ParseCSV reads rows of pid,arrival,burst,priority. A first row whose
// arrival column is not a number is treated as a header.
func ParseCSV(r io.Reader) (*requests.ScheduleRequests, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	request := &requests.ScheduleRequests{Jobs: make([]requests.Job, 0, len(rows))}
	for i, row := range rows {
		if i == 0 {
			if _, err := strconv.Atoi(row[1]); err != nil {
				continue
			}
		}
		job := requests.Job{ProcessId: row[0]}
		if job.ArrivalTime, err = atoi(row[1], i, "arrival_time"); err != nil {
			return nil, err
		}
		if job.BurstTime, err = atoi(row[2], i, "burst_time"); err != nil {
			return nil, err
		}
		if job.Priority, err = atoi(row[3], i, "priority"); err != nil {
			return nil, err
		}
		request.Jobs = append(request.Jobs, job)
	}
	return request, nil
}

func atoi(value string, row int, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("row %d: invalid %s %q: %w", row+1, field, value, err)
	}
	return n, nil
}

func ParseYAML(r io.Reader) (*requests.ScheduleRequests, error) {
	request := &requests.ScheduleRequests{}
	if err := yaml.NewDecoder(r).Decode(request); err != nil {
		return nil, fmt.Errorf("reading YAML: %w", err)
	}
	return request, nil
}

func ParseJSON(r io.Reader) (*requests.ScheduleRequests, error) {
	request := &requests.ScheduleRequests{}
	if err := json.NewDecoder(r).Decode(request); err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	return request, nil
}
