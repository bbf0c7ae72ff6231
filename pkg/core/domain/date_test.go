package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"2024-05-17", "2024-05-17", false},
		{" 2024-05-17 ", "2024-05-17", false},
		{"2024-05-17T23:30:00Z", "2024-05-17", false},
		{"17/05/2024", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.String() != tt.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{D: DateOf(time.Date(2023, 12, 1, 18, 0, 0, 0, time.UTC))})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"d":"2023-12-01"}` {
		t.Errorf("Marshal = %s", b)
	}
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		src  any
		want string
	}{
		{"2024-02-29", "2024-02-29"},
		{[]byte("2024-02-29 00:00:00"), "2024-02-29"},
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "2024-02-29"},
	}
	for _, tt := range tests {
		var d Date
		if err := d.Scan(tt.src); err != nil {
			t.Errorf("Scan(%v) error = %v", tt.src, err)
			continue
		}
		if d.String() != tt.want {
			t.Errorf("Scan(%v) = %s, want %s", tt.src, d, tt.want)
		}
	}

	var d Date
	if err := d.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}
