package config

import (
	"strconv"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("MAZE_TEST_HOST", "127.0.0.1")

	if got := getEnv("MAZE_TEST_HOST", "0.0.0.0"); got != "127.0.0.1" {
		t.Errorf("getEnv() = %q, want %q", got, "127.0.0.1")
	}
	if got := getEnv("MAZE_TEST_UNSET", "0.0.0.0"); got != "0.0.0.0" {
		t.Errorf("getEnv() = %q, want fallback %q", got, "0.0.0.0")
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("MAZE_TEST_SIZE", "21")

	if got := getEnvAsInt("MAZE_TEST_SIZE", 15); got != 21 {
		t.Errorf("getEnvAsInt() = %d, want 21", got)
	}
	if got := getEnvAsInt("MAZE_TEST_UNSET", 15); got != 15 {
		t.Errorf("getEnvAsInt() = %d, want fallback 15", got)
	}
}

func TestDefaults(t *testing.T) {
	c := initConfig()
	if c.MazeSize < 5 || c.TimeLimit <= 0 || c.TickIntervalMs <= 0 {
		t.Errorf("initConfig() = %+v, want usable defaults", c)
	}
}

func TestGetEnvAsUint64(t *testing.T) {
	t.Setenv("MAZE_TEST_SEED", "18446744073709551615")

	if got := getEnvAsUint64("MAZE_TEST_SEED", 0); got != 18446744073709551615 {
		t.Errorf("getEnvAsUint64() = %d, want max uint64", got)
	}
	if got := getEnvAsUint64("MAZE_TEST_UNSET", 7); got != 7 {
		t.Errorf("getEnvAsUint64() = %d, want fallback 7", got)
	}
}

func TestParseUint64(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "42", want: 42},
		{in: "-1", wantErr: true},
		{in: "seed", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(strconv.Quote(tt.in), func(t *testing.T) {
			got, err := parseUint64(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseUint64(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseUint64(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestCheckPositive(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{value: 120},
		{value: 1},
		{value: 0, wantErr: true},
		{value: -3, wantErr: true},
	}

	for _, tt := range tests {
		if err := checkPositive(tt.value); (err != nil) != tt.wantErr {
			t.Errorf("checkPositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}
