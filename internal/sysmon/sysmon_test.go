package sysmon

import (
	"encoding/json"
	"testing"
)

func TestSample_ReturnsValidRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestStatsJSON(t *testing.T) {
	data, err := json.Marshal(Stats{CPUPercent: 12.5, MemPercent: 40})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"cpu_percent":12.5,"mem_percent":40}` {
		t.Errorf("json = %s", data)
	}
}
