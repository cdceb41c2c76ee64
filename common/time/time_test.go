package time

import (
	"testing"
	"time"
)

const (
	layout string = "2006-01-02 15:04:05"
)

func ts(t *testing.T, str string) time.Time {
	timestamp, err := time.Parse(layout, str)
	if err != nil {
		t.Fatal("Failed to parse timestamp", err)
	}
	return timestamp
}

func mustLoad(t *testing.T, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatal("Failed to load location", err)
	}
	return loc
}

func TestDateIn(t *testing.T) {
	losAngeles := mustLoad(t, "America/Los_Angeles")
	tokyo := mustLoad(t, "Asia/Tokyo")
	for _, example := range []struct {
		input    string
		loc      *time.Location
		expected string
	}{
		{input: "2013-01-01 15:43:25", loc: time.UTC, expected: "2013-01-01"},
		{input: "2013-01-01 15:43:25", loc: nil, expected: "2013-01-01"},
		{input: "2013-01-01 02:00:00", loc: losAngeles, expected: "2012-12-31"},
		{input: "2013-01-01 20:00:00", loc: tokyo, expected: "2013-01-02"},
		{input: "2016-02-29 23:59:59", loc: time.UTC, expected: "2016-02-29"},
	} {
		result := DateIn(ts(t, example.input), example.loc)
		if result.String() != example.expected {
			t.Fatalf("Result not expected for %v: %v != %v", example.input, result, example.expected)
		}
	}
}

func TestCompare(t *testing.T) {
	for _, example := range []struct {
		lhs, rhs LocalDate
		expected int
	}{
		{NewLocalDate(2017, 9, 13), NewLocalDate(2017, 9, 13), 0},
		{NewLocalDate(2017, 9, 13), NewLocalDate(2017, 9, 14), -1},
		{NewLocalDate(2017, 9, 13), NewLocalDate(2017, 8, 31), 1},
		{NewLocalDate(2016, 12, 31), NewLocalDate(2017, 1, 1), -1},
	} {
		if result := example.lhs.Compare(example.rhs); result != example.expected {
			t.Fatalf("Result not expected for %v vs %v: %v != %v", example.lhs, example.rhs, result, example.expected)
		}
	}
}

func TestNewLocalDate(t *testing.T) {
	for input, expected := range map[LocalDate]string{
		NewLocalDate(2017, 9, 13):  "2017-09-13",
		NewLocalDate(2016, 2, 29):  "2016-02-29",
		NewLocalDate(2017, 2, 30):  "2017-03-02",
		NewLocalDate(2017, 12, 32): "2018-01-01",
		NewLocalDate(2018, 1, 0):   "2017-12-31",
	} {
		if input.String() != expected {
			t.Fatalf("Result not expected: %v != %v", input, expected)
		}
	}
}
